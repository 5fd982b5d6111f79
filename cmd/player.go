package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/storage"
)

var playerCached bool

var playerCmd = &cobra.Command{
	Use:   "player <player>",
	Short: "Show a player's profile",
	Long: `Looks up a player's public profile (name, rank, SteamID) and refreshes the
local snapshot. With --cached the stored snapshot is shown without going
upstream.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().BoolVar(&playerCached, "cached", false, "show the stored snapshot without fetching")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	accountID, err := parsePlayer(args[0])
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if playerCached {
		snap, err := db.GetProfile(accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no stored snapshot for player %d: run without --cached first", accountID)
		}
		if err != nil {
			return err
		}
		printProfile(snap)
		return nil
	}

	client := opendota.NewClient(logger())
	profile, err := client.Player(cmd.Context(), accountID)
	if err != nil {
		return err
	}
	if profile.AccountID == 0 {
		return fmt.Errorf("player %d has no public profile", accountID)
	}

	snap := storage.ProfileSnapshot{
		AccountID: profile.AccountID,
		SteamID:   profile.SteamID,
		Name:      profile.Name,
		Avatar:    profile.Avatar,
		RankTier:  profile.RankTier,
		UpdatedAt: time.Now().Unix(),
	}
	if err := db.UpsertProfile(snap); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	printProfile(snap)
	return nil
}

func printProfile(p storage.ProfileSnapshot) {
	fmt.Printf("%s\n", p.Name)
	fmt.Printf("  account id:  %d\n", p.AccountID)
	sid := p.SteamID
	if sid == "" {
		sid = fmt.Sprintf("%d", model.Steam64FromAccountID(p.AccountID))
	}
	fmt.Printf("  steam id:    %s\n", sid)
	fmt.Printf("  rank:        %s\n", rankTierName(p.RankTier))
	fmt.Printf("  updated:     %s\n", humanize.Time(time.Unix(p.UpdatedAt, 0)))
}

// rankTierName renders OpenDota's two-digit rank tier (medal*10 + stars).
func rankTierName(tier int) string {
	medals := []string{"Uncalibrated", "Herald", "Guardian", "Crusader",
		"Archon", "Legend", "Ancient", "Divine", "Immortal"}
	medal, stars := tier/10, tier%10
	if medal <= 0 || medal >= len(medals) {
		return "Uncalibrated"
	}
	if medal == 8 || stars == 0 {
		return medals[medal]
	}
	return fmt.Sprintf("%s %d", medals[medal], stars)
}
