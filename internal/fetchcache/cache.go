// Package fetchcache memoizes match-list fetches per (player, window) and
// enforces a client-side minimum spacing between fresh requests so repeated
// CLI invocations don't trip upstream rate limits.
package fetchcache

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pable/go-dota-party/internal/model"
)

const (
	// entryTTL is how long a cached match list stays live.
	entryTTL = 5 * time.Minute
	// freshSpacing is the minimum gap between fresh fetches for one player,
	// regardless of window.
	freshSpacing = 10 * time.Second
)

// ErrThrottled is returned when a fresh fetch for the player happened too
// recently. The caller should wait and resubmit; it is not retried here.
var ErrThrottled = errors.New("fetchcache: fresh fetch for this player too recent, try again shortly")

type key struct {
	accountID uint32
	window    string
}

type entry struct {
	matches   []model.Match
	fetchedAt time.Time
}

// Cache memoizes fetch results with a TTL. Expiry is lazy: stale entries are
// dropped when read, there is no background sweep.
type Cache struct {
	mu        sync.Mutex
	entries   map[key]entry
	lastFresh map[uint32]time.Time
	log       *slog.Logger
	now       func() time.Time
}

// New returns an empty cache.
func New(logger *slog.Logger) *Cache {
	return &Cache{
		entries:   make(map[key]entry),
		lastFresh: make(map[uint32]time.Time),
		log:       logger,
		now:       time.Now,
	}
}

// FetchFunc produces a fresh match list when the cache cannot serve the key.
type FetchFunc func() ([]model.Match, error)

// GetOrFetch returns the cached match list for (accountID, windowKey) if a
// live entry exists. Otherwise, if the player's last fresh fetch was under
// the spacing limit ago, it fails fast with ErrThrottled. Otherwise it
// invokes fn, stores the result, and stamps the player's fresh-fetch time.
func (c *Cache) GetOrFetch(accountID uint32, windowKey string, fn FetchFunc) ([]model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{accountID: accountID, window: windowKey}
	now := c.now()

	if e, ok := c.entries[k]; ok {
		if now.Sub(e.fetchedAt) < entryTTL {
			c.log.Debug("cache hit",
				slog.Uint64("account_id", uint64(accountID)),
				slog.String("window", windowKey))
			return e.matches, nil
		}
		delete(c.entries, k)
	}

	if last, ok := c.lastFresh[accountID]; ok && now.Sub(last) < freshSpacing {
		return nil, ErrThrottled
	}

	matches, err := fn()
	if err != nil {
		return nil, err
	}

	c.entries[k] = entry{matches: matches, fetchedAt: now}
	c.lastFresh[accountID] = now
	return matches, nil
}

// Invalidate drops every cached window for the player.
func (c *Cache) Invalidate(accountID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.accountID == accountID {
			delete(c.entries, k)
		}
	}
}
