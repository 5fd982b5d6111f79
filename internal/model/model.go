package model

import "time"

// steamBaseID is the offset between a 64-bit SteamID and the 32-bit Dota
// account ID used by the stats service.
const steamBaseID int64 = 76561197960265728

// AccountIDFromSteam64 converts a 64-bit SteamID to the 32-bit account ID.
func AccountIDFromSteam64(sid64 int64) uint32 {
	return uint32(sid64 - steamBaseID)
}

// Steam64FromAccountID is the inverse of AccountIDFromSteam64.
func Steam64FromAccountID(accountID uint32) int64 {
	return int64(accountID) + steamBaseID
}

// Faction is the side a player is on within a match.
type Faction int

const (
	FactionRadiant Faction = 0
	FactionDire    Faction = 1
)

func (f Faction) String() string {
	switch f {
	case FactionRadiant:
		return "Radiant"
	case FactionDire:
		return "Dire"
	default:
		return "?"
	}
}

// FactionFromSlot maps a player_slot (0-127 Radiant, 128-255 Dire) to a Faction.
func FactionFromSlot(slot int) Faction {
	if slot < 128 {
		return FactionRadiant
	}
	return FactionDire
}

// Match is one entry from the player's match history, as reported upstream.
// Immutable once fetched; lives for one analysis session.
type Match struct {
	MatchID    int64
	StartTime  int64 // epoch seconds
	Duration   int   // seconds
	Kills      int
	Deaths     int
	Assists    int
	HeroID     int
	PlayerSlot int
	RadiantWin bool
	PartyID    *int64 // nil when upstream omits it
	PartySize  *int   // nil when upstream omits it; 0 is also "unknown"
	LobbyType  int
}

// Faction returns the tracked player's side in this match.
func (m Match) Faction() Faction {
	return FactionFromSlot(m.PlayerSlot)
}

// Won reports whether the tracked player's side won.
func (m Match) Won() bool {
	return (m.Faction() == FactionRadiant) == m.RadiantWin
}

// Started returns the match start as a time.Time.
func (m Match) Started() time.Time {
	return time.Unix(m.StartTime, 0).UTC()
}

// RosterEntry is one player's row in a match's full roster. Anonymous players
// have AccountID == 0 and an empty name.
type RosterEntry struct {
	AccountID   uint32 // 0 for anonymous players
	Name        string
	HeroID      int
	PlayerSlot  int
	Kills       int
	Deaths      int
	Assists     int
	GoldPerMin  int
	XPPerMin    int
	LastHits    int
	Denies      int
	HeroDamage  int
	TowerDamage int
	HeroHealing int
	NetWorth    int
	Stuns       float64 // total stun seconds dealt
}

// Faction returns the roster entry's side.
func (r RosterEntry) Faction() Faction {
	return FactionFromSlot(r.PlayerSlot)
}

// Anonymous reports whether the entry hides its account identity.
func (r RosterEntry) Anonymous() bool {
	return r.AccountID == 0
}

// KDA returns the (kills+assists)/deaths ratio, with deaths floored at 1.
func (r RosterEntry) KDA() float64 {
	deaths := r.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(r.Kills+r.Assists) / float64(deaths)
}

// Contact is a known social-graph entry, supplied whole by the Steam Web API
// collaborator and read-only within the pipeline.
type Contact struct {
	SteamID64   int64
	Name        string
	State       PersonaState
	FriendSince int64 // epoch seconds, 0 if unknown
}

// AccountID returns the contact's 32-bit Dota account ID.
func (c Contact) AccountID() uint32 {
	return AccountIDFromSteam64(c.SteamID64)
}

// PersonaState mirrors the Steam profile presence states.
type PersonaState int

const (
	StateOffline PersonaState = iota
	StateOnline
	StateBusy
	StateAway
	StateSnooze
	StateLookingToTrade
	StateLookingToPlay
)

func (s PersonaState) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateBusy:
		return "busy"
	case StateAway:
		return "away"
	case StateSnooze:
		return "snooze"
	case StateLookingToTrade:
		return "looking to trade"
	case StateLookingToPlay:
		return "looking to play"
	default:
		return "offline"
	}
}

// Companion is a contact detected as a participant in a specific match,
// annotated with what they played there.
type Companion struct {
	Contact Contact
	HeroID  int
	Faction Faction
}

// Findings maps a match ID to the companions detected in it. Built
// incrementally by the companion scan; invalidated when the active time
// window changes.
type Findings map[int64][]Companion
