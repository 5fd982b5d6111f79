// Package pipeline wires the fetch client, cache, companion scanner, and
// party inference into one analysis session. All mutable cross-cutting
// state — the result cache, the findings map, the active contacts — is
// owned here rather than living in globals.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pable/go-dota-party/internal/companions"
	"github.com/pable/go-dota-party/internal/fetchcache"
	"github.com/pable/go-dota-party/internal/model"
	"github.com/pable/go-dota-party/internal/opendota"
	"github.com/pable/go-dota-party/internal/party"
	"github.com/pable/go-dota-party/internal/window"
)

// StatsAPI is the slice of the stats service the pipeline consumes.
// *opendota.Client satisfies it.
type StatsAPI interface {
	PlayerMatches(ctx context.Context, accountID uint32, days int) ([]model.Match, error)
	Match(ctx context.Context, matchID int64) (*opendota.MatchDetail, error)
}

// Pipeline is one player-analysis session.
type Pipeline struct {
	api      StatsAPI
	cache    *fetchcache.Cache
	scanner  *companions.Scanner
	contacts []model.Contact
	findings model.Findings
	window   window.Key
	log      *slog.Logger
	now      func() time.Time
}

// New returns a pipeline with an empty cache and no findings.
func New(api StatsAPI, contacts []model.Contact, logger *slog.Logger, scanOpts ...companions.Option) *Pipeline {
	return &Pipeline{
		api:      api,
		cache:    fetchcache.New(logger),
		scanner:  companions.NewScanner(api, logger, scanOpts...),
		contacts: contacts,
		findings: make(model.Findings),
		window:   window.All,
		log:      logger,
		now:      time.Now,
	}
}

// SetWindow switches the active time window. Companion findings belong to a
// window's match set, so changing it discards them.
func (p *Pipeline) SetWindow(k window.Key) {
	if k == p.window {
		return
	}
	p.window = k
	p.findings = make(model.Findings)
}

// Window returns the active window key.
func (p *Pipeline) Window() window.Key {
	return p.window
}

// Matches fetches the player's match list for the active window. The raw
// list is served through the result cache; the window filter runs on every
// call so a cached list still narrows correctly as time passes.
func (p *Pipeline) Matches(ctx context.Context, accountID uint32) ([]model.Match, error) {
	raw, err := p.cache.GetOrFetch(accountID, string(p.window), func() ([]model.Match, error) {
		return p.api.PlayerMatches(ctx, accountID, p.window.Days())
	})
	if err != nil {
		return nil, err
	}
	return window.Filter(raw, p.window, p.now()), nil
}

// Scan runs companion detection over the given matches, folding new findings
// into the session.
func (p *Pipeline) Scan(ctx context.Context, matches []model.Match, onProgress func(companions.Progress)) (companions.Progress, error) {
	found, prog, err := p.scanner.Scan(ctx, matches, p.contacts, onProgress)
	for id, list := range found {
		p.findings[id] = list
	}
	return prog, err
}

// PartySize returns the effective party size for a match, preferring
// companion evidence accumulated by Scan.
func (p *Pipeline) PartySize(m model.Match) int {
	return party.InferSize(m, p.findings[m.MatchID])
}

// Companions returns the companions detected in a match, or nil.
func (p *Pipeline) Companions(matchID int64) []model.Companion {
	return p.findings[matchID]
}

// Findings exposes the accumulated findings map for persistence.
func (p *Pipeline) Findings() model.Findings {
	return p.findings
}

// Contacts returns the session's contact list.
func (p *Pipeline) Contacts() []model.Contact {
	return p.contacts
}
