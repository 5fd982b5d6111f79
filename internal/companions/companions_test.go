package companions

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/ratelimit"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
)

const baseSID = int64(76561197960265728)

func contact(accountID uint32, name string) model.Contact {
	return model.Contact{SteamID64: baseSID + int64(accountID), Name: name}
}

func intp(v int) *int { return &v }

// fakeFetcher serves canned rosters and records fetch order.
type fakeFetcher struct {
	rosters map[int64][]model.RosterEntry
	errs    map[int64]error
	// rateLimitFirst makes the first fetch of each listed match fail with
	// ErrRateLimited, succeeding on retry.
	rateLimitFirst map[int64]bool
	calls          []int64
}

func (f *fakeFetcher) Match(ctx context.Context, matchID int64) (*opendota.MatchDetail, error) {
	f.calls = append(f.calls, matchID)
	if f.rateLimitFirst[matchID] {
		f.rateLimitFirst[matchID] = false
		return nil, opendota.ErrRateLimited
	}
	if err := f.errs[matchID]; err != nil {
		return nil, err
	}
	return &opendota.MatchDetail{MatchID: matchID, Roster: f.rosters[matchID]}, nil
}

func testScanner(t *testing.T, fetcher *fakeFetcher) *Scanner {
	t.Helper()
	return NewScanner(fetcher, slog.New(slog.DiscardHandler),
		WithLimiter(ratelimit.NewUnlimited()),
		WithRateLimitPause(time.Millisecond))
}

func TestDetectInRosterByAccountID(t *testing.T) {
	roster := []model.RosterEntry{
		{AccountID: 111, Name: "someone else", HeroID: 5, PlayerSlot: 2},
		{AccountID: 222, Name: "renamed friend", HeroID: 14, PlayerSlot: 130},
	}
	found := DetectInRoster(roster, []model.Contact{contact(222, "old name")})

	require.Len(t, found, 1)
	assert.EqualValues(t, 222, found[0].Contact.AccountID())
	assert.Equal(t, 14, found[0].HeroID)
	assert.Equal(t, model.FactionDire, found[0].Faction)
}

func TestDetectInRosterRecordsContactOnce(t *testing.T) {
	// Contact matches by ID and the name would also match another entry;
	// only one companion may come back.
	roster := []model.RosterEntry{
		{AccountID: 222, Name: "buddy", HeroID: 1},
		{AccountID: 333, Name: "buddy", HeroID: 2},
	}
	found := DetectInRoster(roster, []model.Contact{contact(222, "buddy")})
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].HeroID, "account-ID strategy must win over name")
}

func TestDetectInRosterNameFallbacks(t *testing.T) {
	roster := []model.RosterEntry{
		{AccountID: 900, Name: "Shadow", HeroID: 10},
		{AccountID: 901, Name: "xX_ShadowFiend_Xx", HeroID: 11},
	}

	// Exact (case-insensitive) beats containment.
	found := DetectInRoster(roster, []model.Contact{contact(555, "shadow")})
	require.Len(t, found, 1)
	assert.Equal(t, 10, found[0].HeroID)

	// Containment fallback when no exact match exists.
	found = DetectInRoster(roster, []model.Contact{contact(556, "shadowfiend")})
	require.Len(t, found, 1)
	assert.Equal(t, 11, found[0].HeroID)
}

func TestDetectInRosterIgnoresAnonymousAndUnnamed(t *testing.T) {
	roster := []model.RosterEntry{
		{AccountID: 0, Name: ""},
		{AccountID: 0, Name: ""},
	}
	found := DetectInRoster(roster, []model.Contact{contact(222, "")})
	assert.Empty(t, found)
}

func TestScanOnlyFetchesAmbiguousMatches(t *testing.T) {
	fetcher := &fakeFetcher{rosters: map[int64][]model.RosterEntry{}}
	scanner := testScanner(t, fetcher)

	matches := []model.Match{
		{MatchID: 1},                      // party_size null → ambiguous
		{MatchID: 2, PartySize: intp(5)},  // clear party → skipped
		{MatchID: 3, PartySize: intp(0)},  // zero → ambiguous
		{MatchID: 4, PartySize: intp(2)},  // small → ambiguous
	}

	_, prog, err := scanner.Scan(context.Background(), matches,
		[]model.Contact{contact(222, "buddy")}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 4}, fetcher.calls)
	assert.Equal(t, 3, prog.Processed)
	assert.Equal(t, 1, prog.Skipped)
}

func TestScanRecordsFindings(t *testing.T) {
	fetcher := &fakeFetcher{rosters: map[int64][]model.RosterEntry{
		7: {{AccountID: 222, Name: "buddy", HeroID: 19, PlayerSlot: 1}},
		8: {{AccountID: 999, Name: "stranger"}},
	}}
	scanner := testScanner(t, fetcher)

	findings, prog, err := scanner.Scan(context.Background(),
		[]model.Match{{MatchID: 7}, {MatchID: 8}},
		[]model.Contact{contact(222, "buddy")}, nil)
	require.NoError(t, err)

	require.Len(t, findings[7], 1)
	assert.Equal(t, 19, findings[7][0].HeroID)
	assert.NotContains(t, findings, int64(8))
	assert.Equal(t, 1, prog.Found)
}

func TestScanRosterFailureIsSoft(t *testing.T) {
	fetcher := &fakeFetcher{
		rosters: map[int64][]model.RosterEntry{
			2: {{AccountID: 222, Name: "buddy"}},
		},
		errs: map[int64]error{1: &opendota.UpstreamError{Status: 500}},
	}
	scanner := testScanner(t, fetcher)

	findings, prog, err := scanner.Scan(context.Background(),
		[]model.Match{{MatchID: 1}, {MatchID: 2}},
		[]model.Contact{contact(222, "buddy")}, nil)
	require.NoError(t, err, "per-match failures must not abort the scan")

	assert.Equal(t, 1, prog.Errors)
	assert.Equal(t, 2, prog.Processed)
	require.Len(t, findings[2], 1)
}

func TestScanPausesAndRetriesOnRateLimit(t *testing.T) {
	fetcher := &fakeFetcher{
		rosters:        map[int64][]model.RosterEntry{1: {{AccountID: 222, Name: "buddy"}}},
		rateLimitFirst: map[int64]bool{1: true},
	}
	scanner := testScanner(t, fetcher)

	findings, prog, err := scanner.Scan(context.Background(),
		[]model.Match{{MatchID: 1}},
		[]model.Contact{contact(222, "buddy")}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 1}, fetcher.calls, "same match retried once after pause")
	assert.Equal(t, 1, prog.Found)
	require.Len(t, findings[1], 1)
}

func TestScanAbandonBetweenMatches(t *testing.T) {
	fetcher := &fakeFetcher{rosters: map[int64][]model.RosterEntry{
		1: {{AccountID: 222, Name: "buddy"}},
	}}
	scanner := testScanner(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	var once bool
	findings, prog, err := scanner.Scan(ctx,
		[]model.Match{{MatchID: 1}, {MatchID: 2}, {MatchID: 3}},
		[]model.Contact{contact(222, "buddy")},
		func(Progress) {
			if !once {
				once = true
				cancel() // abandon after the first match completes
			}
		})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, prog.Processed, "in-flight match completes, later ones never start")
	require.Len(t, findings[1], 1, "partial findings are preserved")
}

func TestScanProgressMonotonic(t *testing.T) {
	fetcher := &fakeFetcher{rosters: map[int64][]model.RosterEntry{}}
	scanner := testScanner(t, fetcher)

	var seen []int
	_, _, err := scanner.Scan(context.Background(),
		[]model.Match{{MatchID: 1}, {MatchID: 2}, {MatchID: 3}},
		[]model.Contact{contact(222, "x")},
		func(p Progress) { seen = append(seen, p.Processed+p.Skipped) })
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestScanNoContactsIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	scanner := testScanner(t, fetcher)

	findings, prog, err := scanner.Scan(context.Background(),
		[]model.Match{{MatchID: 1}}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Zero(t, prog.Processed)
	assert.Empty(t, fetcher.calls)
}
