package steamapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-dota-party/internal/model"
)

const (
	owner   = "76561197970669109"
	friendA = "76561198031906602"
	friendB = "76561198041234567"
)

func testServer(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "GetFriendList"):
			w.Write([]byte(`{"friendslist":{"friends":[
				{"steamid":"` + friendA + `","relationship":"friend","friend_since":1400000000},
				{"steamid":"` + friendB + `","relationship":"friend","friend_since":1500000000}
			]}}`))
		case strings.Contains(r.URL.Path, "GetPlayerSummaries"):
			w.Write([]byte(`{"response":{"players":[
				{"steamid":"` + friendA + `","personaname":"alice","personastate":1},
				{"steamid":"` + friendB + `","personaname":"bob","personastate":0}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithRoot(srv.URL))
}

func TestFriendsResolvesNamesAndPresence(t *testing.T) {
	client := testServer(t)

	contacts, err := client.Friends(context.Background(), steamid.New(owner))
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "alice", contacts[0].Name)
	assert.Equal(t, model.StateOnline, contacts[0].State)
	assert.EqualValues(t, 1400000000, contacts[0].FriendSince)
	assert.Equal(t, "bob", contacts[1].Name)
	assert.Equal(t, model.StateOffline, contacts[1].State)

	// The 32-bit account IDs must round-trip through the fixed offset.
	assert.EqualValues(t, contacts[0].SteamID64,
		model.Steam64FromAccountID(contacts[0].AccountID()))
}

func TestFriendsPrivateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	client := NewClient("test-key", WithRoot(srv.URL))

	_, err := client.Friends(context.Background(), steamid.New(owner))
	assert.ErrorIs(t, err, ErrPrivateFriends)
}

func TestFriendsRejectsInvalidSteamID(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.Friends(context.Background(), steamid.SteamID{})
	assert.ErrorIs(t, err, ErrInvalidSteamID)
}
