package service

import (
	"context"

	"github.com/robynasuro/octra-client/cache"
	"github.com/robynasuro/octra-client/domain"
)

// AccountService exposes the confirmed-state view and the effective nonce to
// callers outside the submission path.
type AccountService struct {
	states  *cache.StateCache
	pending *cache.PendingCache
}

func NewAccountService(states *cache.StateCache, pending *cache.PendingCache) *AccountService {
	return &AccountService{states: states, pending: pending}
}

// GetState returns the cached confirmed state of addr.
func (s *AccountService) GetState(ctx context.Context, addr string) (domain.ConfirmedState, error) {
	return s.states.Get(ctx, addr)
}

// NextNonce returns the next safely usable nonce for addr: the effective
// nonce over confirmed and pending knowledge, plus one.
func (s *AccountService) NextNonce(ctx context.Context, addr string) (uint64, error) {
	state, err := s.states.Get(ctx, addr)
	if err != nil {
		return 0, err
	}
	pool, err := s.pending.Get(ctx)
	if err != nil {
		return 0, err
	}
	return EffectiveNonce(addr, state, pool) + 1, nil
}
