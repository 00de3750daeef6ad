// Package cache holds the client's shared read caches: the confirmed-state
// view and the pending-pool view. Both are explicit, injectable stores with
// TTL refresh and manual invalidation; readers and the optimistic writer
// share them under a last-writer-wins discipline.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/monitoring"
)

// StateFetcher pulls the authoritative confirmed state of one address.
type StateFetcher func(ctx context.Context, addr string) (domain.ConfirmedState, error)

// StateCache is a per-address TTL cache over confirmed ledger state.
type StateCache struct {
	mu      sync.Mutex
	fetch   StateFetcher
	ttl     time.Duration
	entries map[string]domain.ConfirmedState
}

func NewStateCache(fetch StateFetcher, ttl time.Duration) *StateCache {
	return &StateCache{
		fetch:   fetch,
		ttl:     ttl,
		entries: make(map[string]domain.ConfirmedState),
	}
}

// Get returns the cached state of addr, refreshing it when stale or absent.
func (c *StateCache) Get(ctx context.Context, addr string) (domain.ConfirmedState, error) {
	c.mu.Lock()
	entry, ok := c.entries[addr]
	c.mu.Unlock()
	if ok && time.Since(entry.FetchedAt) < c.ttl {
		return entry, nil
	}

	fresh, err := c.fetch(ctx, addr)
	if err != nil {
		return domain.ConfirmedState{}, err
	}
	monitoring.IncreaseCacheRefresh("state")

	c.mu.Lock()
	c.entries[addr] = fresh
	c.mu.Unlock()
	return fresh, nil
}

// Invalidate drops the cached state of addr so the next read refetches. Used
// by the optimistic reconciler after an accepted submission; the refresh
// itself happens on the normal read path, never here.
func (c *StateCache) Invalidate(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, addr)
}
