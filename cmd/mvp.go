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

var mvpCmd = &cobra.Command{
	Use:   "mvp <match-id>",
	Short: "Pick the most valuable player of a match",
	Long: `Fetches the full scoreboard for a match and scores every named player
against their own team's averages. Anonymous players are left out of
the running.`,
	Args: cobra.ExactArgs(1),
	RunE: runMVP,
}

func runMVP(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}

	client := opendota.NewClient(logger())
	detail, err := client.Match(cmd.Context(), matchID)
	if err != nil {
		return err
	}

	result, err := scoring.MVP(detail.Roster)
	if err != nil {
		return err
	}

	fmt.Printf("Match %d (%s)\n\n", detail.MatchID, fmtDurationCmd(detail.Duration))
	report.PrintRosterTable(os.Stdout, detail.Roster, result)
	fmt.Println()
	report.PrintMVPBreakdown(os.Stdout, result)
	return nil
}

func fmtDurationCmd(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
