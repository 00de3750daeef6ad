package config

import "time"

const (
	// DefaultChunkSize is the number of submissions dispatched concurrently
	// as one scheduling unit.
	DefaultChunkSize = 5

	// DefaultSubmitTimeout bounds a single submission round-trip.
	DefaultSubmitTimeout = 10 * time.Second

	// DefaultRequestTimeout bounds read-side RPC round-trips.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultHistoryLimit caps the merged history feed.
	DefaultHistoryLimit = 50

	// DefaultStateTTL and DefaultPendingTTL are the refresh intervals of the
	// confirmed-state and pending-pool caches.
	DefaultStateTTL   = 30 * time.Second
	DefaultPendingTTL = 10 * time.Second

	DefaultRPCURL = "https://octra.network"
)
