package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/pable/go-dota-party/internal/model"
)

// ProfileSnapshot is the derived player record a caller may persist.
type ProfileSnapshot struct {
	AccountID uint32
	SteamID   string
	Name      string
	Avatar    string
	RankTier  int
	UpdatedAt int64
}

// UpsertProfile stores (or refreshes) a profile snapshot.
func (db *DB) UpsertProfile(p ProfileSnapshot) error {
	if p.UpdatedAt == 0 {
		p.UpdatedAt = time.Now().Unix()
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO profiles(account_id, steam_id, name, avatar, rank_tier, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.AccountID, p.SteamID, p.Name, p.Avatar, p.RankTier, p.UpdatedAt,
	)
	return err
}

// GetProfile returns the stored snapshot for an account, or sql.ErrNoRows.
func (db *DB) GetProfile(accountID uint32) (ProfileSnapshot, error) {
	var p ProfileSnapshot
	err := db.conn.QueryRow(`
		SELECT account_id, steam_id, name, avatar, rank_tier, updated_at
		FROM profiles WHERE account_id = ?`, accountID).
		Scan(&p.AccountID, &p.SteamID, &p.Name, &p.Avatar, &p.RankTier, &p.UpdatedAt)
	return p, err
}

// UpsertContacts bulk-stores the current contact list in a transaction.
func (db *DB) UpsertContacts(contacts []model.Contact) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO contacts(steam_id64, name, state, friend_since, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, c := range contacts {
		if _, err := stmt.Exec(strconv.FormatInt(c.SteamID64, 10),
			c.Name, int(c.State), c.FriendSince, now); err != nil {
			return fmt.Errorf("insert contact %d: %w", c.SteamID64, err)
		}
	}
	return tx.Commit()
}

// ListContacts returns every stored contact, most recent friendship first.
func (db *DB) ListContacts() ([]model.Contact, error) {
	rows, err := db.conn.Query(`
		SELECT steam_id64, name, state, friend_since
		FROM contacts ORDER BY friend_since DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		var (
			c   model.Contact
			sid string
			st  int
		)
		if err := rows.Scan(&sid, &c.Name, &st, &c.FriendSince); err != nil {
			return nil, err
		}
		c.SteamID64, err = strconv.ParseInt(sid, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt steam_id64 %q: %w", sid, err)
		}
		c.State = model.PersonaState(st)
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertMatches bulk-stores a fetched match list for an account.
func (db *DB) InsertMatches(accountID uint32, matches []model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			match_id, account_id, start_time, duration,
			kills, deaths, assists, hero_id, player_slot,
			radiant_win, party_id, party_size, lobby_type
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		var partyID, partySize any
		if m.PartyID != nil {
			partyID = *m.PartyID
		}
		if m.PartySize != nil {
			partySize = *m.PartySize
		}
		if _, err := stmt.Exec(
			m.MatchID, accountID, m.StartTime, m.Duration,
			m.Kills, m.Deaths, m.Assists, m.HeroID, m.PlayerSlot,
			boolInt(m.RadiantWin), partyID, partySize, m.LobbyType,
		); err != nil {
			return fmt.Errorf("insert match %d: %w", m.MatchID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns the stored match list for an account, newest first.
func (db *DB) ListMatches(accountID uint32) ([]model.Match, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, start_time, duration, kills, deaths, assists,
		       hero_id, player_slot, radiant_win, party_id, party_size, lobby_type
		FROM matches WHERE account_id = ? ORDER BY start_time DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		var (
			m         model.Match
			win       int
			partyID   sql.NullInt64
			partySize sql.NullInt64
		)
		if err := rows.Scan(&m.MatchID, &m.StartTime, &m.Duration,
			&m.Kills, &m.Deaths, &m.Assists, &m.HeroID, &m.PlayerSlot,
			&win, &partyID, &partySize, &m.LobbyType); err != nil {
			return nil, err
		}
		m.RadiantWin = win != 0
		if partyID.Valid {
			v := partyID.Int64
			m.PartyID = &v
		}
		if partySize.Valid {
			v := int(partySize.Int64)
			m.PartySize = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveFindings stores companion findings. Existing rows for a match are
// replaced, never partially updated.
func (db *DB) SaveFindings(findings model.Findings) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	del, err := tx.Prepare(`DELETE FROM findings WHERE match_id = ?`)
	if err != nil {
		return err
	}
	defer del.Close()

	ins, err := tx.Prepare(`
		INSERT INTO findings(match_id, steam_id64, name, hero_id, faction, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ins.Close()

	now := time.Now().Unix()
	for matchID, list := range findings {
		if _, err := del.Exec(matchID); err != nil {
			return err
		}
		for _, comp := range list {
			if _, err := ins.Exec(matchID,
				strconv.FormatInt(comp.Contact.SteamID64, 10),
				comp.Contact.Name, comp.HeroID, int(comp.Faction), now,
			); err != nil {
				return fmt.Errorf("insert finding for match %d: %w", matchID, err)
			}
		}
	}
	return tx.Commit()
}

// ListFindings returns every stored finding keyed by match.
func (db *DB) ListFindings() (model.Findings, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, steam_id64, name, hero_id, faction
		FROM findings ORDER BY match_id, steam_id64`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := make(model.Findings)
	for rows.Next() {
		var (
			matchID int64
			sid     string
			comp    model.Companion
			faction int
		)
		if err := rows.Scan(&matchID, &sid, &comp.Contact.Name, &comp.HeroID, &faction); err != nil {
			return nil, err
		}
		comp.Contact.SteamID64, err = strconv.ParseInt(sid, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt steam_id64 %q: %w", sid, err)
		}
		comp.Faction = model.Faction(faction)
		findings[matchID] = append(findings[matchID], comp)
	}
	return findings, rows.Err()
}
