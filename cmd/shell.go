package cmd

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/party"
	"github.com/pable/go-dota-party/internal/report"
	"github.com/pable/go-dota-party/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session against saved data",
	Long:  "Open a persistent session over the local database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("dotaparty shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("dotaparty")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "friends":
			shellFriends(db)
		case "matches":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: matches <player>")
				continue
			}
			shellMatches(db, args[0])
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <player>")
				continue
			}
			shellProfile(db, args[0])
		case "top":
			shellTop(db)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"friends", "list saved friends"},
		{"matches <player>", "list saved matches with party sizes"},
		{"player <player>", "show the saved profile snapshot"},
		{"top", "friends ranked by matches played together"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-22s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellFriends(db *storage.DB) {
	contacts, err := db.ListContacts()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(contacts) == 0 {
		cMuted.Println("No friends saved yet. Run: dotaparty friends <steamid64> --save")
		return
	}
	report.PrintContactTable(os.Stdout, contacts)
}

// storedSizer resolves party sizes for saved matches from saved findings.
type storedSizer struct {
	findings model.Findings
}

func (s storedSizer) PartySize(m model.Match) int {
	return party.InferSize(m, s.findings[m.MatchID])
}

func (s storedSizer) Companions(matchID int64) []model.Companion {
	return s.findings[matchID]
}

func shellMatches(db *storage.DB, arg string) {
	accountID, err := parsePlayer(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	matches, err := db.ListMatches(accountID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches saved for this player. Run: dotaparty matches <player> --save")
		return
	}
	findings, err := db.ListFindings()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchTable(os.Stdout, matches, storedSizer{findings: findings})
}

func shellProfile(db *storage.DB, arg string) {
	accountID, err := parsePlayer(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	snap, err := db.GetProfile(accountID)
	if errors.Is(err, sql.ErrNoRows) {
		cMuted.Println("No snapshot saved. Run: dotaparty player <player>")
		return
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	printProfile(snap)
}

func shellTop(db *storage.DB) {
	counts, err := db.TopCompanions(0)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(counts) == 0 {
		cMuted.Println("No findings saved yet. Run: dotaparty matches <player> --scan --save")
		return
	}
	for i, c := range counts {
		fmt.Printf("%3d. %-25s %4d matches  (%s)\n", i+1, c.Name, c.Matches, c.SteamID64)
	}
}
