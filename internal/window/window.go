// Package window narrows match collections to a named or custom time interval.
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-dota-party/internal/model"
)

// Key names one of the fixed lookback windows.
type Key string

const (
	Day         Key = "day"
	Week        Key = "week"
	Month       Key = "month"
	TwoMonths   Key = "twoMonths"
	ThreeMonths Key = "threeMonths"
	All         Key = "all"
)

// seconds maps each fixed window to its lookback span. All has no bound.
var seconds = map[Key]int64{
	Day:         86400,
	Week:        604800,
	Month:       2592000,
	TwoMonths:   5184000,
	ThreeMonths: 7776000,
}

var ErrUnknownKey = errors.New("window: unknown window key")

// Parse resolves a user-supplied window name to a Key.
func Parse(s string) (Key, error) {
	switch Key(s) {
	case Day, Week, Month, TwoMonths, ThreeMonths, All:
		return Key(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Keys lists the valid window names for help text.
func Keys() []string {
	return []string{string(Day), string(Week), string(Month),
		string(TwoMonths), string(ThreeMonths), string(All)}
}

// Days returns the window span in whole days for upstream lookback
// parameters, or 0 for All.
func (k Key) Days() int {
	secs, ok := seconds[k]
	if !ok {
		return 0
	}
	return int(secs / 86400)
}

// Filter returns the matches whose start time falls within the window ending
// at now. Input order is preserved; the input slice is not mutated.
func Filter(matches []model.Match, k Key, now time.Time) []model.Match {
	if k == All {
		out := make([]model.Match, len(matches))
		copy(out, matches)
		return out
	}

	cutoff := now.Unix() - seconds[k]
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.StartTime >= cutoff {
			out = append(out, m)
		}
	}
	return out
}

// Custom is a closed [Start, End] interval in epoch seconds.
type Custom struct {
	Start int64
	End   int64
}

var ErrInvalidInterval = errors.New("window: interval end precedes start")

// Validate rejects inverted intervals. Callers must validate before
// filtering; FilterCustom assumes an ordered interval.
func (c Custom) Validate() error {
	if c.End < c.Start {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidInterval, c.Start, c.End)
	}
	return nil
}

// FilterCustom returns the matches whose start time falls within the closed
// interval. Input order is preserved.
func FilterCustom(matches []model.Match, c Custom) []model.Match {
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.StartTime >= c.Start && m.StartTime <= c.End {
			out = append(out, m)
		}
	}
	return out
}
