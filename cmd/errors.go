package cmd

import (
	"errors"

	"github.com/pable/go-dota-party/internal/fetchcache"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/steamapi"
)

// friendlyError maps error kinds to actionable messages instead of raw
// upstream text.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, opendota.ErrRateLimited):
		return "the stats service is rate limiting us — wait a minute and try again"
	case errors.Is(err, opendota.ErrNetwork):
		return "could not reach the stats service — check your connection and try again"
	case errors.Is(err, fetchcache.ErrThrottled):
		return "a fresh fetch for this player ran moments ago — wait a few seconds and retry"
	case opendota.IsNotFound(err):
		return "player or match not found — the profile may be private or has no exposed match data"
	case errors.Is(err, steamapi.ErrPrivateFriends):
		return "this profile's friends list is private — it must be public to detect companions"
	default:
		return err.Error()
	}
}
