// Package companions scans ambiguous matches for known contacts hiding in
// the roster, correcting party sizes the upstream service failed to report.
package companions

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/ratelimit"

	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/party"
)

// rateLimitPause is how long a scan sleeps after an upstream rate-limit
// signal before retrying the same match once. The scan resumes rather than
// aborting.
const rateLimitPause = 5 * time.Second

// MatchFetcher fetches a single match's roster. Roster detail fetches are
// always fresh; only the match-list level goes through the cache.
type MatchFetcher interface {
	Match(ctx context.Context, matchID int64) (*opendota.MatchDetail, error)
}

// Progress carries scan counters, updated in roster-scan order so callers
// can report monotonic progress.
type Progress struct {
	Processed int // ambiguous matches fetched (or attempted)
	Skipped   int // matches with an unambiguous upstream party size
	Errors    int // per-match soft roster-fetch failures
	Found     int // matches with at least one companion detected
}

// Scanner walks a match list sequentially, fetching roster detail for each
// ambiguous match and recording which contacts played in it. Fetches are
// paced to stay under upstream rate limits; concurrent issuance would defeat
// that, so there is exactly one in-flight fetch at a time.
type Scanner struct {
	fetcher MatchFetcher
	limiter ratelimit.Limiter
	log     *slog.Logger
	pause   time.Duration
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLimiter replaces the inter-fetch pacing limiter, used by tests.
func WithLimiter(rl ratelimit.Limiter) Option {
	return func(s *Scanner) { s.limiter = rl }
}

// WithRateLimitPause overrides the mid-scan pause, used by tests.
func WithRateLimitPause(d time.Duration) Option {
	return func(s *Scanner) { s.pause = d }
}

// NewScanner returns a Scanner paced at two roster fetches per second.
func NewScanner(fetcher MatchFetcher, logger *slog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		fetcher: fetcher,
		limiter: ratelimit.New(2),
		log:     logger,
		pause:   rateLimitPause,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan examines every ambiguous match in matches for the given contacts.
// It returns the findings accumulated so far together with final counters;
// onProgress, if non-nil, is invoked after each match in scan order.
//
// Per-match roster failures are soft: the match is skipped and counted, the
// scan continues. Cancelling ctx abandons the scan between matches; findings
// already made are returned alongside the context error.
func (s *Scanner) Scan(ctx context.Context, matches []model.Match, contacts []model.Contact, onProgress func(Progress)) (model.Findings, Progress, error) {
	findings := make(model.Findings)
	var prog Progress

	if len(contacts) == 0 {
		return findings, prog, nil
	}

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return findings, prog, err
		}

		if !party.Ambiguous(m) {
			prog.Skipped++
			report(onProgress, prog)
			continue
		}

		detail, err := s.fetchPaced(ctx, m.MatchID)
		prog.Processed++
		if err != nil {
			if ctx.Err() != nil {
				return findings, prog, ctx.Err()
			}
			// Soft failure: log, count, move on.
			s.log.Warn("roster fetch failed, skipping match",
				slog.Int64("match_id", m.MatchID),
				slog.String("error", err.Error()))
			prog.Errors++
			report(onProgress, prog)
			continue
		}

		if found := DetectInRoster(detail.Roster, contacts); len(found) > 0 {
			findings[m.MatchID] = found
			prog.Found++
			s.log.Debug("companions detected",
				slog.Int64("match_id", m.MatchID),
				slog.Int("count", len(found)))
		}
		report(onProgress, prog)
	}

	return findings, prog, nil
}

// fetchPaced performs one paced roster fetch. On an upstream rate-limit
// signal it pauses and retries the same match once before giving up.
func (s *Scanner) fetchPaced(ctx context.Context, matchID int64) (*opendota.MatchDetail, error) {
	s.limiter.Take()

	detail, err := s.fetcher.Match(ctx, matchID)
	if !errors.Is(err, opendota.ErrRateLimited) {
		return detail, err
	}

	s.log.Info("rate limited mid-scan, pausing",
		slog.Int64("match_id", matchID),
		slog.Duration("pause", s.pause))
	if serr := sleepCtx(ctx, s.pause); serr != nil {
		return nil, serr
	}
	return s.fetcher.Match(ctx, matchID)
}

func report(onProgress func(Progress), prog Progress) {
	if onProgress != nil {
		onProgress(prog)
	}
}

// DetectInRoster returns the contacts present in the roster. Each contact is
// matched by, in order: 32-bit account ID equality, case-insensitive display
// name equality, then case-insensitive substring containment. The first
// matching roster entry wins and a contact is recorded at most once.
//
// The containment fallback trades precision for recall: short or common
// display names can false-positive. That looseness is deliberate — many
// rosters expose only a name.
func DetectInRoster(roster []model.RosterEntry, contacts []model.Contact) []model.Companion {
	var found []model.Companion

	for _, contact := range contacts {
		entry, ok := findContact(roster, contact)
		if !ok {
			continue
		}
		found = append(found, model.Companion{
			Contact: contact,
			HeroID:  entry.HeroID,
			Faction: entry.Faction(),
		})
	}
	return found
}

func findContact(roster []model.RosterEntry, contact model.Contact) (model.RosterEntry, bool) {
	candidate := contact.AccountID()
	for _, entry := range roster {
		if !entry.Anonymous() && entry.AccountID == candidate {
			return entry, true
		}
	}

	if contact.Name == "" {
		return model.RosterEntry{}, false
	}
	for _, entry := range roster {
		if entry.Name != "" && strings.EqualFold(entry.Name, contact.Name) {
			return entry, true
		}
	}

	lower := strings.ToLower(contact.Name)
	for _, entry := range roster {
		if entry.Name != "" && strings.Contains(strings.ToLower(entry.Name), lower) {
			return entry, true
		}
	}
	return model.RosterEntry{}, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
