package fetchcache

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-dota-party/internal/model"
)

// fakeClock drives c.now for deterministic TTL tests.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func testCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := New(slog.New(slog.DiscardHandler))
	c.now = func() time.Time { return clock.t }
	return c, clock
}

func fetchReturning(calls *int, matches []model.Match) FetchFunc {
	return func() ([]model.Match, error) {
		*calls++
		return matches, nil
	}
}

func TestGetOrFetchServesLiveEntryWithoutRefetch(t *testing.T) {
	c, clock := testCache(t)
	calls := 0
	want := []model.Match{{MatchID: 1}, {MatchID: 2}}

	got, err := c.GetOrFetch(100, "week", fetchReturning(&calls, want))
	require.NoError(t, err)
	require.Equal(t, want, got)

	clock.advance(4 * time.Minute)
	got, err = c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, 1, calls, "second call within TTL must not invoke the fetch func")
}

func TestGetOrFetchExpiresLazily(t *testing.T) {
	c, clock := testCache(t)
	calls := 0

	_, err := c.GetOrFetch(100, "week", fetchReturning(&calls, []model.Match{{MatchID: 1}}))
	require.NoError(t, err)

	clock.advance(6 * time.Minute)
	_, err = c.GetOrFetch(100, "week", fetchReturning(&calls, []model.Match{{MatchID: 2}}))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestGetOrFetchThrottlesFreshFetchesAcrossWindows(t *testing.T) {
	c, clock := testCache(t)
	calls := 0

	_, err := c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)

	// Different window for the same player, inside the spacing limit.
	clock.advance(3 * time.Second)
	_, err = c.GetOrFetch(100, "month", fetchReturning(&calls, nil))
	require.ErrorIs(t, err, ErrThrottled)
	require.Equal(t, 1, calls)

	// Past the spacing limit the fetch goes through.
	clock.advance(8 * time.Second)
	_, err = c.GetOrFetch(100, "month", fetchReturning(&calls, nil))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestGetOrFetchThrottleIsPerPlayer(t *testing.T) {
	c, _ := testCache(t)
	calls := 0

	_, err := c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)
	_, err = c.GetOrFetch(200, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestGetOrFetchFetchErrorNotCached(t *testing.T) {
	c, clock := testCache(t)

	boom := func() ([]model.Match, error) { return nil, ErrThrottled }
	_, err := c.GetOrFetch(100, "week", boom)
	require.Error(t, err)

	// The failed call must not count as a fresh fetch.
	clock.advance(time.Second)
	calls := 0
	_, err = c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestInvalidateDropsAllWindowsForPlayer(t *testing.T) {
	c, clock := testCache(t)
	calls := 0

	_, _ = c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	clock.advance(11 * time.Second)
	_, _ = c.GetOrFetch(100, "month", fetchReturning(&calls, nil))
	require.Equal(t, 2, calls)

	c.Invalidate(100)
	clock.advance(11 * time.Second)
	_, err := c.GetOrFetch(100, "week", fetchReturning(&calls, nil))
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}
