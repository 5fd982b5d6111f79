// Package steamapi is a minimal Steam Web API client used to pull the
// tracked player's friends list and resolve display names and presence.
package steamapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"

	"github.com/pable/go-dota-party/internal/model"
)

const apiRoot = "https://api.steampowered.com"

// summaryChunkSize is the Steam API's per-request cap on GetPlayerSummaries.
const summaryChunkSize = 100

var (
	// ErrPrivateFriends means the profile hides its friends list; the Steam
	// API answers 401 for those.
	ErrPrivateFriends = errors.New("steamapi: friends list is private")
	ErrInvalidSteamID = errors.New("steamapi: invalid steamid")
	ErrRequestFailed  = errors.New("steamapi: request failed")
)

// Client talks to the Steam Web API.
type Client struct {
	apiKey string
	http   *http.Client
	root   string
}

// Option configures a Client.
type Option func(*Client)

// WithRoot overrides the API root, used by tests.
func WithRoot(root string) Option {
	return func(c *Client) { c.root = strings.TrimRight(root, "/") }
}

// NewClient returns a Steam Web API client authenticated with the given key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
		root:   apiRoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type friendsListResponse struct {
	FriendsList struct {
		Friends []struct {
			SteamID     string `json:"steamid"`
			FriendSince int64  `json:"friend_since"`
		} `json:"friends"`
	} `json:"friendslist"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			SteamID      string `json:"steamid"`
			PersonaName  string `json:"personaname"`
			PersonaState int    `json:"personastate"`
		} `json:"players"`
	} `json:"response"`
}

// Friends returns the player's contacts with display names and presence
// resolved. The friend list endpoint yields only IDs, so a second batched
// call fills in the summaries.
func (c *Client) Friends(ctx context.Context, sid steamid.SteamID) ([]model.Contact, error) {
	if !sid.Valid() {
		return nil, ErrInvalidSteamID
	}

	params := url.Values{
		"key":          {c.apiKey},
		"steamid":      {strconv.FormatInt(sid.Int64(), 10)},
		"relationship": {"friend"},
	}
	var friends friendsListResponse
	if err := c.get(ctx, "/ISteamUser/GetFriendList/v1/?"+params.Encode(), &friends); err != nil {
		return nil, err
	}

	contacts := make([]model.Contact, 0, len(friends.FriendsList.Friends))
	since := make(map[int64]int64, len(friends.FriendsList.Friends))
	var ids []int64
	for _, f := range friends.FriendsList.Friends {
		id, err := strconv.ParseInt(f.SteamID, 10, 64)
		if err != nil {
			continue
		}
		if fsid := steamid.New(id); !fsid.Valid() {
			continue
		}
		ids = append(ids, id)
		since[id] = f.FriendSince
	}

	names, states, err := c.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		contacts = append(contacts, model.Contact{
			SteamID64:   id,
			Name:        names[id],
			State:       states[id],
			FriendSince: since[id],
		})
	}
	return contacts, nil
}

// summaries resolves display names and presence in chunks of 100.
func (c *Client) summaries(ctx context.Context, ids []int64) (map[int64]string, map[int64]model.PersonaState, error) {
	names := make(map[int64]string, len(ids))
	states := make(map[int64]model.PersonaState, len(ids))

	for start := 0; start < len(ids); start += summaryChunkSize {
		end := min(start+summaryChunkSize, len(ids))

		joined := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			joined = append(joined, strconv.FormatInt(id, 10))
		}
		params := url.Values{
			"key":      {c.apiKey},
			"steamids": {strings.Join(joined, ",")},
		}

		var resp playerSummariesResponse
		if err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v2/?"+params.Encode(), &resp); err != nil {
			return nil, nil, err
		}
		for _, p := range resp.Response.Players {
			id, err := strconv.ParseInt(p.SteamID, 10, 64)
			if err != nil {
				continue
			}
			names[id] = p.PersonaName
			states[id] = model.PersonaState(p.PersonaState)
		}
	}
	return names, states, nil
}

// get performs a GET against the Steam API and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.root+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrPrivateFriends
	default:
		return fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
