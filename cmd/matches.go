package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/companions"
	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/pipeline"
	"github.com/pable/go-dota-party/internal/report"
	"github.com/pable/go-dota-party/internal/window"
)

// matches command flags.
var (
	// matchesWindow names the lookback window.
	matchesWindow string
	// matchesFrom/matchesTo define a custom interval in epoch seconds.
	matchesFrom int64
	matchesTo   int64
	// matchesScan runs companion detection over ambiguous matches.
	matchesScan bool
	// matchesSave persists the match list and any findings.
	matchesSave bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches <steamid64|account_id>",
	Short: "List a player's matches with inferred party sizes",
	Long: `Fetches the player's match history for a time window, infers the party
size of each match, and optionally scans ambiguous matches for known friends.

Companion scanning needs a stored friends list; run 'dotaparty friends' first.

Examples:
  dotaparty matches 76561198031906602 --window week
  dotaparty matches 71607874 --window month --scan --save
  dotaparty matches 71607874 --from 1718000000 --to 1719000000`,
	Args: cobra.ExactArgs(1),
	RunE: runMatches,
}

func init() {
	matchesCmd.Flags().StringVar(&matchesWindow, "window", string(window.Week),
		"time window: "+strings.Join(window.Keys(), ", "))
	matchesCmd.Flags().Int64Var(&matchesFrom, "from", 0, "custom interval start (epoch seconds)")
	matchesCmd.Flags().Int64Var(&matchesTo, "to", 0, "custom interval end (epoch seconds)")
	matchesCmd.Flags().BoolVar(&matchesScan, "scan", false, "scan ambiguous matches for known friends")
	matchesCmd.Flags().BoolVar(&matchesSave, "save", false, "persist matches and findings to the local db")
}

func runMatches(cmd *cobra.Command, args []string) error {
	accountID, err := parsePlayer(args[0])
	if err != nil {
		return err
	}

	custom := matchesFrom != 0 || matchesTo != 0
	var key window.Key
	if custom {
		// A custom interval must be validated here; the filter assumes an
		// ordered interval.
		if err := (window.Custom{Start: matchesFrom, End: matchesTo}).Validate(); err != nil {
			return err
		}
		key = window.All
	} else {
		key, err = window.Parse(matchesWindow)
		if err != nil {
			return err
		}
	}

	log := logger()
	od := opendota.NewClient(log)

	var contacts []model.Contact
	if matchesScan {
		db, err := openDB()
		if err != nil {
			return err
		}
		contacts, err = db.ListContacts()
		db.Close()
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			return fmt.Errorf("no stored friends — run 'dotaparty friends <steamid64> --save' first")
		}
	}

	p := pipeline.New(od, contacts, log)
	p.SetWindow(key)

	matches, err := p.Matches(cmd.Context(), accountID)
	if err != nil {
		return err
	}
	if custom {
		matches = window.FilterCustom(matches, window.Custom{Start: matchesFrom, End: matchesTo})
	}
	if len(matches) == 0 {
		fmt.Println("no matches found in this window")
		return nil
	}

	if matchesScan {
		fmt.Printf("Scanning %d matches for companions...\n", len(matches))
		prog, err := p.Scan(cmd.Context(), matches, func(prog companions.Progress) {
			fmt.Printf("\r  scanned %d  skipped %d  errors %d  found %d",
				prog.Processed, prog.Skipped, prog.Errors, prog.Found)
		})
		fmt.Println()
		if err != nil {
			// Partial results are still worth showing; just note the abort.
			fmt.Fprintf(os.Stderr, "scan abandoned: %v\n", err)
		}
		if prog.Errors > 0 {
			fmt.Fprintf(os.Stderr, "%d matches skipped due to roster fetch failures\n", prog.Errors)
		}
	}

	report.PrintMatchTable(os.Stdout, matches, p)
	printMatchSummary(matches, p)

	if matchesSave {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.InsertMatches(accountID, matches); err != nil {
			return fmt.Errorf("save matches: %w", err)
		}
		if err := db.SaveFindings(p.Findings()); err != nil {
			return fmt.Errorf("save findings: %w", err)
		}
		fmt.Printf("saved %d matches and %d findings\n", len(matches), len(p.Findings()))
	}
	return nil
}

func printMatchSummary(matches []model.Match, p *pipeline.Pipeline) {
	var wins, solo, grouped int
	for _, m := range matches {
		if m.Won() {
			wins++
		}
		if p.PartySize(m) > 1 {
			grouped++
		} else {
			solo++
		}
	}
	fmt.Printf("\n%d matches: %d won, %d lost  |  %d solo, %d in a party\n",
		len(matches), wins, len(matches)-wins, solo, grouped)
}
