package cache

import (
	"context"
	"sync"
	"time"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/logx"
	"github.com/robynasuro/octra-client/monitoring"
)

// PendingFetcher pulls the node's full unconfirmed pool.
type PendingFetcher func(ctx context.Context) ([]domain.PendingPoolEntry, error)

// PendingCache is a TTL cache over the pending pool with a local overlay of
// optimistically injected entries. The overlay is merged with the
// authoritative snapshot at read time, so a just-submitted transaction is
// visible to the nonce oracle and the history merger before the node's own
// pool endpoint reflects it.
type PendingCache struct {
	mu        sync.Mutex
	fetch     PendingFetcher
	ttl       time.Duration
	snapshot  []domain.PendingPoolEntry
	fetchedAt time.Time
	overlay   []domain.PendingPoolEntry
}

func NewPendingCache(fetch PendingFetcher, ttl time.Duration) *PendingCache {
	return &PendingCache{
		fetch: fetch,
		ttl:   ttl,
	}
}

// Get returns the merged pending view, newest overlay entries first,
// refreshing the snapshot when stale. A refresh failure after at least one
// successful fetch serves the stale merged view instead of erroring; the
// pending view is advisory, not authoritative.
func (c *PendingCache) Get(ctx context.Context) ([]domain.PendingPoolEntry, error) {
	c.mu.Lock()
	stale := c.fetchedAt.IsZero() || time.Since(c.fetchedAt) >= c.ttl
	everFetched := !c.fetchedAt.IsZero()
	c.mu.Unlock()

	if stale {
		fresh, err := c.fetch(ctx)
		if err != nil {
			if !everFetched {
				return nil, err
			}
			logx.Warn("CACHE", "Pending pool refresh failed, serving stale view: ", err)
		} else {
			monitoring.IncreaseCacheRefresh("pending")
			c.mu.Lock()
			c.snapshot = fresh
			c.fetchedAt = time.Now()
			c.pruneOverlayLocked()
			c.mu.Unlock()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	merged := make([]domain.PendingPoolEntry, 0, len(c.overlay)+len(c.snapshot))
	merged = append(merged, c.overlay...)
	merged = append(merged, c.snapshot...)
	return merged, nil
}

// Prepend injects a locally synthesized entry ahead of the snapshot. Called
// by the optimistic reconciler on submission success.
func (c *PendingCache) Prepend(entry domain.PendingPoolEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = append([]domain.PendingPoolEntry{entry}, c.overlay...)
}

// Invalidate forces the next Get to refresh the snapshot.
func (c *PendingCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

// pruneOverlayLocked drops overlay entries the authoritative snapshot now
// carries. Requires c.mu held.
func (c *PendingCache) pruneOverlayLocked() {
	if len(c.overlay) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(c.snapshot))
	for _, e := range c.snapshot {
		seen[e.Hash] = struct{}{}
	}
	kept := c.overlay[:0]
	for _, e := range c.overlay {
		if _, ok := seen[e.Hash]; !ok {
			kept = append(kept, e)
		}
	}
	c.overlay = kept
}
