package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/report"
	"github.com/pable/go-dota-party/internal/scoring"
)

var throwCmd = &cobra.Command{
	Use:   "throw <match-id> <player>",
	Short: "Detect whether a player threw a match",
	Long: `Compares a player's projected early-game showing against their late-game
showing and reports the drop-off, if any. A drop of 20% or more between
the phases counts as a throw.`,
	Args: cobra.ExactArgs(2),
	RunE: runThrow,
}

func runThrow(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}
	accountID, err := parsePlayer(args[1])
	if err != nil {
		return err
	}

	client := opendota.NewClient(logger())
	detail, err := client.Match(cmd.Context(), matchID)
	if err != nil {
		return err
	}

	entry, ok := findRosterEntry(detail.Roster, accountID)
	if !ok {
		return fmt.Errorf("player %d not found in match %d", accountID, matchID)
	}

	result := scoring.Throw(scoring.ThrowInput{
		Kills:      entry.Kills,
		Deaths:     entry.Deaths,
		Assists:    entry.Assists,
		LastHits:   entry.LastHits,
		HeroDamage: entry.HeroDamage,
		NetWorth:   entry.NetWorth,
		GoldPerMin: entry.GoldPerMin,
		XPPerMin:   entry.XPPerMin,
		Duration:   detail.Duration,
	})

	name := entry.Name
	if entry.Anonymous() || name == "" {
		name = fmt.Sprintf("player %d", accountID)
	}
	fmt.Printf("%s in match %d (%s)\n\n", name, detail.MatchID, fmtDurationCmd(detail.Duration))
	report.PrintThrow(os.Stdout, result)
	return nil
}
