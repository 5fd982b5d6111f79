package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/report"
	"github.com/pable/go-dota-party/internal/steamapi"
)

var friendsSave bool

var friendsCmd = &cobra.Command{
	Use:   "friends <steamid64>",
	Short: "Fetch and show a player's Steam friends",
	Long: `Fetches the friends list for a Steam profile and resolves display names
and presence. Use --save to store the list locally; companion scanning
reads friends from the local store.

Requires a Steam Web API key: set STEAM_API_KEY or create
~/.dotaparty/steam_api_key (get one at https://steamcommunity.com/dev/apikey).`,
	Args: cobra.ExactArgs(1),
	RunE: runFriends,
}

func init() {
	friendsCmd.Flags().BoolVar(&friendsSave, "save", false, "persist the friends list to the local db")
}

func runFriends(cmd *cobra.Command, args []string) error {
	sid, err := parseSteam64(args[0])
	if err != nil {
		return err
	}

	apiKey, err := loadSteamAPIKey()
	if err != nil {
		return err
	}

	client := steamapi.NewClient(apiKey)
	contacts, err := client.Friends(cmd.Context(), sid)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		fmt.Println("no friends found")
		return nil
	}

	report.PrintContactTable(os.Stdout, contacts)
	fmt.Printf("\n%d friends\n", len(contacts))

	if friendsSave {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.UpsertContacts(contacts); err != nil {
			return fmt.Errorf("save contacts: %w", err)
		}
		fmt.Println("saved")
	}
	return nil
}

// loadSteamAPIKey returns the Steam Web API key from the STEAM_API_KEY
// environment variable or ~/.dotaparty/steam_api_key.
func loadSteamAPIKey() (string, error) {
	if key := os.Getenv("STEAM_API_KEY"); key != "" {
		return key, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(home, ".dotaparty", "steam_api_key"))
	if err != nil {
		return "", fmt.Errorf("Steam API key not found: set STEAM_API_KEY or create ~/.dotaparty/steam_api_key")
	}
	return strings.TrimSpace(string(data)), nil
}
