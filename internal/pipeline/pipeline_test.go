package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/ratelimit"

	"github.com/pable/go-dota-party/internal/companions"
	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
)

const baseSID = int64(76561197960265728)

// fakeAPI serves canned match lists and rosters.
type fakeAPI struct {
	matches     []model.Match
	rosters     map[int64][]model.RosterEntry
	listCalls   int
	detailCalls int
}

func (f *fakeAPI) PlayerMatches(ctx context.Context, accountID uint32, days int) ([]model.Match, error) {
	f.listCalls++
	return f.matches, nil
}

func (f *fakeAPI) Match(ctx context.Context, matchID int64) (*opendota.MatchDetail, error) {
	f.detailCalls++
	return &opendota.MatchDetail{MatchID: matchID, Roster: f.rosters[matchID]}, nil
}

func newTestPipeline(t *testing.T, api *fakeAPI, contacts []model.Contact) *Pipeline {
	t.Helper()
	return New(api, contacts, slog.New(slog.DiscardHandler),
		companions.WithLimiter(ratelimit.NewUnlimited()),
		companions.WithRateLimitPause(time.Millisecond))
}

func TestMatchesServedThroughCache(t *testing.T) {
	now := time.Now().Unix()
	api := &fakeAPI{matches: []model.Match{{MatchID: 1, StartTime: now - 60}}}
	p := newTestPipeline(t, api, nil)

	first, err := p.Matches(context.Background(), 42)
	require.NoError(t, err)
	second, err := p.Matches(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.listCalls, "second read must come from the cache")
}

func TestScanCorrectsPartySize(t *testing.T) {
	buddy := model.Contact{SteamID64: baseSID + 222, Name: "buddy"}
	other := model.Contact{SteamID64: baseSID + 333, Name: "other"}

	m := model.Match{MatchID: 7} // party_size null → ambiguous
	api := &fakeAPI{
		matches: []model.Match{m},
		rosters: map[int64][]model.RosterEntry{
			7: {
				{AccountID: 222, Name: "buddy", HeroID: 3, PlayerSlot: 1},
				{AccountID: 333, Name: "other", HeroID: 4, PlayerSlot: 2},
			},
		},
	}
	p := newTestPipeline(t, api, []model.Contact{buddy, other})

	require.Equal(t, 1, p.PartySize(m), "no evidence yet")

	prog, err := p.Scan(context.Background(), []model.Match{m}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Found)

	// Two companions found → party of three, overriding any upstream value.
	assert.Equal(t, 3, p.PartySize(m))
	assert.Len(t, p.Companions(7), 2)
}

func TestSetWindowInvalidatesFindings(t *testing.T) {
	buddy := model.Contact{SteamID64: baseSID + 222, Name: "buddy"}
	api := &fakeAPI{
		rosters: map[int64][]model.RosterEntry{7: {{AccountID: 222, Name: "buddy"}}},
	}
	p := newTestPipeline(t, api, []model.Contact{buddy})

	_, err := p.Scan(context.Background(), []model.Match{{MatchID: 7}}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, p.Findings())

	p.SetWindow("week")
	assert.Empty(t, p.Findings(), "window change discards findings")

	p.SetWindow("week")
	assert.Equal(t, "week", string(p.Window()))
}
