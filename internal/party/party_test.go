package party

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-dota-party/internal/model"
)

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

func companions(n int) []model.Companion {
	out := make([]model.Companion, n)
	for i := range out {
		out[i] = model.Companion{Contact: model.Contact{SteamID64: int64(i) + 76561197960265729}}
	}
	return out
}

func TestInferSizeCompanionEvidenceWins(t *testing.T) {
	m := model.Match{PartySize: intp(5), PartyID: int64p(9)}
	assert.Equal(t, 3, InferSize(m, companions(2)), "companion count overrides upstream")
}

func TestInferSizeUpstreamPartySizeVerbatim(t *testing.T) {
	assert.Equal(t, 4, InferSize(model.Match{PartySize: intp(4)}, nil))
}

func TestInferSizePartyIDImpliesPair(t *testing.T) {
	// party_size: null, party_id: 55, no companions → 2
	m := model.Match{PartyID: int64p(55)}
	assert.Equal(t, 2, InferSize(m, nil))

	// Same with party_size: 0
	m = model.Match{PartySize: intp(0), PartyID: int64p(55)}
	assert.Equal(t, 2, InferSize(m, nil))
}

func TestInferSizeZeroPartySizeWithCompanions(t *testing.T) {
	m := model.Match{PartySize: intp(0)}
	assert.Equal(t, 3, InferSize(m, companions(2)))
}

func TestInferSizeSolo(t *testing.T) {
	assert.Equal(t, 1, InferSize(model.Match{}, nil))

	zero := int64(0)
	m := model.Match{PartySize: intp(-1), PartyID: &zero}
	assert.Equal(t, 1, InferSize(m, nil))
}

func TestInferSizeNeverBelowOne(t *testing.T) {
	cases := []model.Match{
		{},
		{PartySize: intp(-3)},
		{PartySize: intp(0)},
		{PartyID: int64p(0)},
		{PartySize: intp(1)},
	}
	for _, m := range cases {
		assert.GreaterOrEqual(t, InferSize(m, nil), 1)
	}
}

func TestAmbiguous(t *testing.T) {
	assert.True(t, Ambiguous(model.Match{}), "missing party_size")
	assert.True(t, Ambiguous(model.Match{PartySize: intp(0)}))
	assert.True(t, Ambiguous(model.Match{PartySize: intp(2)}))
	assert.True(t, Ambiguous(model.Match{PartyID: int64p(7)}), "pair inferred from party_id")
	assert.False(t, Ambiguous(model.Match{PartySize: intp(3)}))
	assert.False(t, Ambiguous(model.Match{PartySize: intp(5)}))
}
