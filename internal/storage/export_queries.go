package storage

// FindingRow is one flattened companion finding joined with its match,
// used by the export command.
type FindingRow struct {
	MatchID    int64
	StartTime  int64
	SteamID64  string
	Name       string
	HeroID     int
	Faction    int
	PartySize  int // effective size implied by the finding count
	DetectedAt int64
}

// ExportFindings returns every stored finding with match context, newest
// match first. PartySize is companions-in-match + 1.
func (db *DB) ExportFindings() ([]FindingRow, error) {
	rows, err := db.conn.Query(`
		SELECT f.match_id,
		       COALESCE(m.start_time, 0),
		       f.steam_id64, f.name, f.hero_id, f.faction,
		       (SELECT COUNT(1) FROM findings f2 WHERE f2.match_id = f.match_id) + 1,
		       f.detected_at
		FROM findings f
		LEFT JOIN matches m ON m.match_id = f.match_id
		ORDER BY COALESCE(m.start_time, 0) DESC, f.match_id, f.steam_id64`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FindingRow
	for rows.Next() {
		var r FindingRow
		if err := rows.Scan(&r.MatchID, &r.StartTime, &r.SteamID64,
			&r.Name, &r.HeroID, &r.Faction, &r.PartySize, &r.DetectedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompanionCount is an aggregate of how often a contact appeared across all
// scanned matches.
type CompanionCount struct {
	SteamID64 string
	Name      string
	Matches   int
}

// TopCompanions returns contacts ranked by how many matches they were
// detected in. A limit of 0 or less returns every contact.
func (db *DB) TopCompanions(limit int) ([]CompanionCount, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT steam_id64, name, COUNT(1) AS n
		FROM findings
		GROUP BY steam_id64, name
		ORDER BY n DESC, name
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanionCount
	for rows.Next() {
		var c CompanionCount
		if err := rows.Scan(&c.SteamID64, &c.Name, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
