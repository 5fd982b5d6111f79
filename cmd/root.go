package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/storage"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dotaparty",
	Short: "Dota 2 party and companion analysis tool",
	Long: `Retrieves a player's competitive match history, infers who they queued
with, detects friends hiding in unmarked party games, and scores performance.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, friendlyError(err))
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".dotaparty", "dotaparty.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(friendsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(mvpCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(throwCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// logger builds the shared slog logger; --verbose flips it to debug.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openDB creates the database directory if needed and opens the store.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// parsePlayer accepts either a 64-bit SteamID or a 32-bit Dota account ID
// and returns the account ID.
func parsePlayer(arg string) (uint32, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid player id %q: %w", arg, err)
	}
	if len(arg) >= 15 {
		sid := steamid.New(int64(n))
		if !sid.Valid() {
			return 0, fmt.Errorf("invalid steamid64 %q", arg)
		}
		return model.AccountIDFromSteam64(sid.Int64()), nil
	}
	return uint32(n), nil
}

// parseSteam64 requires a full 64-bit SteamID.
func parseSteam64(arg string) (steamid.SteamID, error) {
	sid := steamid.New(arg)
	if !sid.Valid() {
		return sid, fmt.Errorf("invalid steamid64 %q", arg)
	}
	return sid, nil
}
