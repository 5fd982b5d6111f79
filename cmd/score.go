package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/report"
	"github.com/pable/go-dota-party/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <match-id> <player>",
	Short: "Grade a player's performance in a match",
	Long: `Fetches a match scoreboard and grades one player's showing on a 0-100
scale across farm, fighting and utility. The player may be given as a
32-bit account id or a 64-bit SteamID.`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
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

	score := scoring.Performance(scoring.PerformanceInput{
		Kills:       entry.Kills,
		Deaths:      entry.Deaths,
		Assists:     entry.Assists,
		GoldPerMin:  entry.GoldPerMin,
		XPPerMin:    entry.XPPerMin,
		LastHits:    entry.LastHits,
		HeroDamage:  entry.HeroDamage,
		TowerDamage: entry.TowerDamage,
		HeroHealing: entry.HeroHealing,
		Duration:    detail.Duration,
	})

	name := entry.Name
	if entry.Anonymous() || name == "" {
		name = fmt.Sprintf("player %d", accountID)
	}
	fmt.Printf("%s in match %d (%s)\n\n", name, detail.MatchID, fmtDurationCmd(detail.Duration))
	report.PrintPerformance(os.Stdout, score)
	return nil
}

func findRosterEntry(roster []model.RosterEntry, accountID uint32) (model.RosterEntry, bool) {
	for _, e := range roster {
		if !e.Anonymous() && e.AccountID == accountID {
			return e, true
		}
	}
	return model.RosterEntry{}, false
}
