package opendota

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(slog.New(slog.DiscardHandler),
		WithBaseURL(srv.URL),
		WithBackoffUnit(time.Millisecond))
	return client, srv
}

func TestGetRetriesRateLimitExactlyThreeTimes(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	var out any
	err := client.get(context.Background(), "/players/1/matches", &out)
	require.ErrorIs(t, err, ErrRateLimited)
	require.Equal(t, 3, attempts)
}

func TestGetRetriesServiceUnavailable(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"match_id": 42, "duration": 1800}`))
	})

	var out matchDetail
	err := client.get(context.Background(), "/matches/42", &out)
	require.NoError(t, err)
	require.Equal(t, int64(42), out.MatchID)
	require.Equal(t, 2, attempts)
}

func TestGetRateLimitErrorPayload(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte(`{"error": "monthly rate limit exceeded"}`))
	})

	var out any
	err := client.get(context.Background(), "/players/1", &out)
	require.ErrorIs(t, err, ErrRateLimited)
	require.Equal(t, 3, attempts)
}

func TestGetNonRetryableStatusFailsImmediately(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	})

	var out any
	err := client.get(context.Background(), "/players/1", &out)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 404, upstream.Status)
	require.True(t, IsNotFound(err))
	require.Equal(t, 1, attempts)
}

func TestGetNetworkFailureSurfacedAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every request now fails at the dial

	client := NewClient(slog.New(slog.DiscardHandler),
		WithBaseURL(srv.URL),
		WithBackoffUnit(time.Millisecond))

	var out any
	err := client.get(context.Background(), "/players/1", &out)
	require.ErrorIs(t, err, ErrNetwork)
}

func TestGetCancelledDuringBackoff(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	// Long enough that cancellation lands inside the first wait.
	client.backoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var out any
	err := client.get(ctx, "/players/1", &out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlayerMatchesDecodesPartyFields(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"match_id": 1, "player_slot": 130, "radiant_win": true, "start_time": 100,
			 "kills": 3, "deaths": 4, "assists": 10, "party_id": 55},
			{"match_id": 2, "player_slot": 1, "radiant_win": true, "start_time": 200,
			 "party_size": 3}
		]`))
	})

	matches, err := client.PlayerMatches(context.Background(), 1234, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	require.Nil(t, matches[0].PartySize)
	require.NotNil(t, matches[0].PartyID)
	require.EqualValues(t, 55, *matches[0].PartyID)
	require.False(t, matches[0].Won()) // Dire slot, radiant win

	require.Nil(t, matches[1].PartyID)
	require.NotNil(t, matches[1].PartySize)
	require.Equal(t, 3, *matches[1].PartySize)
	require.True(t, matches[1].Won())
}

func TestMatchDecodesAnonymousRosterEntries(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"match_id": 9, "duration": 2400, "radiant_win": false, "players": [
			{"account_id": 111, "personaname": "alice", "hero_id": 14, "player_slot": 0,
			 "kills": 9, "deaths": 2, "assists": 11, "gold_per_min": 620, "net_worth": 25000},
			{"account_id": null, "personaname": "", "hero_id": 8, "player_slot": 128}
		]}`))
	})

	detail, err := client.Match(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, detail.Roster, 2)
	require.EqualValues(t, 111, detail.Roster[0].AccountID)
	require.False(t, detail.Roster[0].Anonymous())
	require.True(t, detail.Roster[1].Anonymous())
	require.Equal(t, "Dire", detail.Roster[1].Faction().String())
}

func TestErrorsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrRateLimited, ErrNetwork))
	require.False(t, IsNotFound(ErrRateLimited))
}
