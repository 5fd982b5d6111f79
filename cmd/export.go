package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/storage"
)

var (
	exportOut  string
	exportTop  int
	exportKind string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved companion findings as CSV",
	Long: `Exports data saved by "matches --scan --save" as CSV.

Two datasets are available via --kind:
  findings    one row per (match, friend) pair with match context
  companions  per-friend totals ordered by matches played together

Example:
  dotaparty export --kind findings --out findings.csv
  dotaparty export --kind companions --top 10`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportKind, "kind", "findings", "dataset to export: findings or companions")
	exportCmd.Flags().IntVar(&exportTop, "top", 0, "limit companions output to the top N friends (0 = all)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var dst io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		dst = f
	}

	w := csv.NewWriter(dst)
	var rows int
	switch exportKind {
	case "findings":
		rows, err = exportFindings(db, w)
	case "companions":
		rows, err = exportCompanions(db, w)
	default:
		return fmt.Errorf("unknown --kind %q: want findings or companions", exportKind)
	}
	if err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if rows == 0 {
		fmt.Fprintln(os.Stderr, `hint: no saved findings yet; run "matches --scan --save" first`)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", rows, exportOut)
	}
	return nil
}

func exportFindings(db *storage.DB, w *csv.Writer) (int, error) {
	findings, err := db.ExportFindings()
	if err != nil {
		return 0, fmt.Errorf("query findings: %w", err)
	}
	if err := w.Write([]string{"match_id", "started", "party_size", "steam_id64", "friend_name", "hero_id", "faction"}); err != nil {
		return 0, err
	}
	for _, f := range findings {
		rec := []string{
			strconv.FormatInt(f.MatchID, 10),
			time.Unix(f.StartTime, 0).UTC().Format(time.RFC3339),
			strconv.Itoa(f.PartySize),
			f.SteamID64,
			f.Name,
			strconv.Itoa(f.HeroID),
			model.Faction(f.Faction).String(),
		}
		if err := w.Write(rec); err != nil {
			return 0, err
		}
	}
	return len(findings), nil
}

func exportCompanions(db *storage.DB, w *csv.Writer) (int, error) {
	counts, err := db.TopCompanions(exportTop)
	if err != nil {
		return 0, fmt.Errorf("query companions: %w", err)
	}
	if err := w.Write([]string{"steam_id64", "friend_name", "matches_together"}); err != nil {
		return 0, err
	}
	for _, c := range counts {
		if err := w.Write([]string{c.SteamID64, c.Name, strconv.Itoa(c.Matches)}); err != nil {
			return 0, err
		}
	}
	return len(counts), nil
}
