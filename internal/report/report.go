// Package report renders match lists, rosters, and score breakdowns as
// terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/scoring"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PartySizer resolves the effective party size for a match; the pipeline
// satisfies it.
type PartySizer interface {
	PartySize(m model.Match) int
	Companions(matchID int64) []model.Companion
}

// PrintMatchTable renders the match list with inferred party sizes and any
// detected companions.
func PrintMatchTable(w io.Writer, matches []model.Match, sizer PartySizer) {
	table := newTable(w)
	table.Header("MATCH", "WHEN", "DUR", "HERO", "K", "D", "A", "RESULT", "PARTY", "COMPANIONS")

	for _, m := range matches {
		result := "Loss"
		if m.Won() {
			result = "Win"
		}

		names := make([]string, 0, 2)
		for _, comp := range sizer.Companions(m.MatchID) {
			names = append(names, comp.Contact.Name)
		}

		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			humanize.Time(m.Started()),
			fmtDuration(m.Duration),
			strconv.Itoa(m.HeroID),
			strconv.Itoa(m.Kills),
			strconv.Itoa(m.Deaths),
			strconv.Itoa(m.Assists),
			result,
			strconv.Itoa(sizer.PartySize(m)),
			strings.Join(names, ", "),
		)
	}
	table.Render()
}

// PrintContactTable renders the contact list.
func PrintContactTable(w io.Writer, contacts []model.Contact) {
	table := newTable(w)
	table.Header("STEAMID64", "ACCOUNT_ID", "NAME", "STATE")
	for _, c := range contacts {
		table.Append(
			strconv.FormatInt(c.SteamID64, 10),
			strconv.FormatUint(uint64(c.AccountID()), 10),
			c.Name,
			c.State.String(),
		)
	}
	table.Render()
}

// PrintRosterTable renders a match roster. If mvp is non-nil the winning
// entry's row is marked with ">".
func PrintRosterTable(w io.Writer, roster []model.RosterEntry, mvp *scoring.MVPResult) {
	table := newTable(w)
	table.Header(" ", "NAME", "SIDE", "HERO", "K", "D", "A", "GPM", "XPM", "LH", "HD", "TD", "NW", "HEAL")

	for _, e := range roster {
		marker := " "
		if mvp != nil && !e.Anonymous() && e.AccountID == mvp.Winner.Entry.AccountID {
			marker = ">"
		}
		name := e.Name
		if e.Anonymous() && name == "" {
			name = "(anonymous)"
		}
		table.Append(
			marker,
			name,
			e.Faction().String(),
			strconv.Itoa(e.HeroID),
			strconv.Itoa(e.Kills),
			strconv.Itoa(e.Deaths),
			strconv.Itoa(e.Assists),
			strconv.Itoa(e.GoldPerMin),
			strconv.Itoa(e.XPPerMin),
			strconv.Itoa(e.LastHits),
			strconv.Itoa(e.HeroDamage),
			strconv.Itoa(e.TowerDamage),
			strconv.Itoa(e.NetWorth),
			strconv.Itoa(e.HeroHealing),
		)
	}
	table.Render()
}

// PrintMVPBreakdown renders the scored field with the composite components.
func PrintMVPBreakdown(w io.Writer, result *scoring.MVPResult) {
	fmt.Fprintf(w, "\nMVP: %s (score %.1f)\n\n", result.Winner.Entry.Name, result.Winner.Total)

	table := newTable(w)
	table.Header("NAME", "KDA", "COMBAT", "ECON", "SUPPORT", "XP", "BONUS", "PENALTY", "TOTAL")
	for _, s := range result.Scores {
		table.Append(
			s.Entry.Name,
			fmt.Sprintf("%.1f", s.KDA),
			fmt.Sprintf("%.1f", s.Combat),
			fmt.Sprintf("%.1f", s.Economic),
			fmt.Sprintf("%.1f", s.Support),
			fmt.Sprintf("%.1f", s.XP),
			fmt.Sprintf("%.1f", s.Bonus),
			fmt.Sprintf("%.1f", s.Penalty),
			fmt.Sprintf("%.1f", s.Total),
		)
	}
	table.Render()
}

// PrintPerformance renders one player's performance-score breakdown.
func PrintPerformance(w io.Writer, score scoring.PerformanceScore) {
	table := newTable(w)
	table.Header("COMPONENT", "POINTS", "MAX")
	for _, c := range score.Components {
		table.Append(c.Label,
			fmt.Sprintf("%.0f", c.Points),
			fmt.Sprintf("%.0f", c.Max))
	}
	table.Render()
	fmt.Fprintf(w, "\nPerformance: %.0f/100 (%s)\n", score.Total, score.Category)
}

// PrintThrow renders a throw analysis.
func PrintThrow(w io.Writer, result scoring.ThrowResult) {
	fmt.Fprintf(w, "Early score: %.1f\n", result.EarlyScore)
	fmt.Fprintf(w, "Late score:  %.1f\n", result.LateScore)
	fmt.Fprintf(w, "Drop:        %.1f%%\n", result.Percent)
	fmt.Fprintf(w, "Verdict:     %s\n", result.Category)
}

func fmtDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
