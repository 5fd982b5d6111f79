package opendota

import (
	"context"
	"fmt"

	"github.com/pable/go-dota-party/internal/model"
)

// playerMatch is one entry from /players/{account_id}/matches.
type playerMatch struct {
	MatchID    int64  `json:"match_id"`
	PlayerSlot int    `json:"player_slot"`
	RadiantWin bool   `json:"radiant_win"`
	Duration   int    `json:"duration"`
	LobbyType  int    `json:"lobby_type"`
	HeroID     int    `json:"hero_id"`
	StartTime  int64  `json:"start_time"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
	PartyID    *int64 `json:"party_id"`
	PartySize  *int   `json:"party_size"`
}

// matchPlayer is one roster row from /matches/{match_id}.
type matchPlayer struct {
	AccountID   *uint32 `json:"account_id"`
	Personaname string  `json:"personaname"`
	HeroID      int     `json:"hero_id"`
	PlayerSlot  int     `json:"player_slot"`
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	GoldPerMin  int     `json:"gold_per_min"`
	XPPerMin    int     `json:"xp_per_min"`
	LastHits    int     `json:"last_hits"`
	Denies      int     `json:"denies"`
	HeroDamage  int     `json:"hero_damage"`
	TowerDamage int     `json:"tower_damage"`
	HeroHealing int     `json:"hero_healing"`
	NetWorth    int     `json:"net_worth"`
	Stuns       float64 `json:"stuns"`
}

// matchDetail is the subset of /matches/{match_id} we consume.
type matchDetail struct {
	MatchID    int64         `json:"match_id"`
	Duration   int           `json:"duration"`
	StartTime  int64         `json:"start_time"`
	RadiantWin bool          `json:"radiant_win"`
	Players    []matchPlayer `json:"players"`
}

// MatchDetail is a fetched match with its full roster.
type MatchDetail struct {
	MatchID    int64
	Duration   int
	StartTime  int64
	RadiantWin bool
	Roster     []model.RosterEntry
}

// playerProfile is the subset of /players/{account_id} we consume.
type playerProfile struct {
	Profile struct {
		AccountID   uint32 `json:"account_id"`
		Personaname string `json:"personaname"`
		SteamID     string `json:"steamid"`
		Avatar      string `json:"avatarfull"`
	} `json:"profile"`
	RankTier *int `json:"rank_tier"`
}

// Profile is the upstream view of a tracked player.
type Profile struct {
	AccountID uint32
	Name      string
	SteamID   string
	Avatar    string
	RankTier  int
}

// PlayerMatches fetches the player's match history. days limits the lookback
// window server-side (0 = no limit). The result preserves upstream order
// (newest first). An empty slice is a valid "nothing found" result, not an
// error.
func (c *Client) PlayerMatches(ctx context.Context, accountID uint32, days int) ([]model.Match, error) {
	path := fmt.Sprintf("/players/%d/matches", accountID)
	if days > 0 {
		path += fmt.Sprintf("?date=%d", days)
	}

	var raw []playerMatch
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}

	matches := make([]model.Match, 0, len(raw))
	for _, pm := range raw {
		matches = append(matches, model.Match{
			MatchID:    pm.MatchID,
			StartTime:  pm.StartTime,
			Duration:   pm.Duration,
			Kills:      pm.Kills,
			Deaths:     pm.Deaths,
			Assists:    pm.Assists,
			HeroID:     pm.HeroID,
			PlayerSlot: pm.PlayerSlot,
			RadiantWin: pm.RadiantWin,
			PartyID:    pm.PartyID,
			PartySize:  pm.PartySize,
			LobbyType:  pm.LobbyType,
		})
	}
	return matches, nil
}

// Match fetches a single match with its full roster.
func (c *Client) Match(ctx context.Context, matchID int64) (*MatchDetail, error) {
	var raw matchDetail
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), &raw); err != nil {
		return nil, err
	}

	detail := &MatchDetail{
		MatchID:    raw.MatchID,
		Duration:   raw.Duration,
		StartTime:  raw.StartTime,
		RadiantWin: raw.RadiantWin,
		Roster:     make([]model.RosterEntry, 0, len(raw.Players)),
	}
	for _, p := range raw.Players {
		entry := model.RosterEntry{
			Name:        p.Personaname,
			HeroID:      p.HeroID,
			PlayerSlot:  p.PlayerSlot,
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			GoldPerMin:  p.GoldPerMin,
			XPPerMin:    p.XPPerMin,
			LastHits:    p.LastHits,
			Denies:      p.Denies,
			HeroDamage:  p.HeroDamage,
			TowerDamage: p.TowerDamage,
			HeroHealing: p.HeroHealing,
			NetWorth:    p.NetWorth,
			Stuns:       p.Stuns,
		}
		if p.AccountID != nil {
			entry.AccountID = *p.AccountID
		}
		detail.Roster = append(detail.Roster, entry)
	}
	return detail, nil
}

// Player fetches the tracked player's profile.
func (c *Client) Player(ctx context.Context, accountID uint32) (*Profile, error) {
	var raw playerProfile
	if err := c.get(ctx, fmt.Sprintf("/players/%d", accountID), &raw); err != nil {
		return nil, err
	}

	p := &Profile{
		AccountID: raw.Profile.AccountID,
		Name:      raw.Profile.Personaname,
		SteamID:   raw.Profile.SteamID,
		Avatar:    raw.Profile.Avatar,
	}
	if raw.RankTier != nil {
		p.RankTier = *raw.RankTier
	}
	return p, nil
}
