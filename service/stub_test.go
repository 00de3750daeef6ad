package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/robynasuro/octra-client/cache"
	"github.com/robynasuro/octra-client/config"
	"github.com/robynasuro/octra-client/domain"
)

// fakeLedger is an in-memory LedgerClient for scheduler and merger tests.
type fakeLedger struct {
	mu sync.Mutex

	state    domain.ConfirmedState
	stateErr error
	pool     []domain.PendingPoolEntry
	refs     []domain.TxRef
	refsErr  error
	details  map[string]domain.TxRecord
	badHash  map[string]error

	submitDelay map[uint64]time.Duration // keyed by nonce
	submitErr   map[uint64]error

	stateFetches int
	submitOrder  []uint64
}

func newFakeLedger(confirmedNonce uint64, balanceTokens uint64) *fakeLedger {
	return &fakeLedger{
		state: domain.ConfirmedState{
			Balance: uint256.NewInt(balanceTokens * domain.MicroPerToken),
			Nonce:   confirmedNonce,
		},
		details:     make(map[string]domain.TxRecord),
		badHash:     make(map[string]error),
		submitDelay: make(map[uint64]time.Duration),
		submitErr:   make(map[uint64]error),
	}
}

func (f *fakeLedger) GetConfirmedState(ctx context.Context, addr string) (domain.ConfirmedState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateFetches++
	if f.stateErr != nil {
		return domain.ConfirmedState{}, f.stateErr
	}
	state := f.state
	state.FetchedAt = time.Now()
	return state, nil
}

func (f *fakeLedger) GetPendingPool(ctx context.Context) ([]domain.PendingPoolEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PendingPoolEntry(nil), f.pool...), nil
}

func (f *fakeLedger) GetAddressHistory(ctx context.Context, addr string, limit int) ([]domain.TxRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refsErr != nil {
		return nil, f.refsErr
	}
	return append([]domain.TxRef(nil), f.refs...), nil
}

func (f *fakeLedger) GetTxDetail(ctx context.Context, hash string) (domain.TxRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.badHash[hash]; ok {
		return domain.TxRecord{}, err
	}
	record, ok := f.details[hash]
	if !ok {
		return domain.TxRecord{}, fmt.Errorf("unknown hash %s", hash)
	}
	return record, nil
}

func (f *fakeLedger) SubmitTx(ctx context.Context, tx domain.SignedTx) (domain.SubmitReceipt, error) {
	nonce := tx.Tx.Nonce

	f.mu.Lock()
	f.submitOrder = append(f.submitOrder, nonce)
	delay := f.submitDelay[nonce]
	err := f.submitErr[nonce]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.SubmitReceipt{}, ctx.Err()
		}
	}
	if err != nil {
		return domain.SubmitReceipt{}, err
	}
	return domain.SubmitReceipt{Hash: fmt.Sprintf("hash-%d", nonce)}, nil
}

func (f *fakeLedger) stateFetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateFetches
}

func (f *fakeLedger) submittedNonces() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.submitOrder...)
}

// harness wires a TxService and friends over a fakeLedger.
type harness struct {
	ledger  *fakeLedger
	states  *cache.StateCache
	pending *cache.PendingCache
	tx      *TxService
	history *HistoryService
	wallet  domain.Wallet
}

func newHarness(t *testing.T, ledger *fakeLedger, tuning config.TuningConfig) *harness {
	t.Helper()
	wallet, err := domain.WalletFromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)

	states := cache.NewStateCache(ledger.GetConfirmedState, time.Minute)
	pending := cache.NewPendingCache(ledger.GetPendingPool, time.Minute)
	return &harness{
		ledger:  ledger,
		states:  states,
		pending: pending,
		tx:      NewTxService(ledger, states, pending, tuning),
		history: NewHistoryService(ledger, pending, tuning.HistoryLimit),
		wallet:  wallet,
	}
}

func testTuning() config.TuningConfig {
	return config.TuningConfig{
		ChunkSize:     5,
		SubmitTimeout: 5 * time.Second,
		StateTTL:      time.Minute,
		PendingTTL:    time.Minute,
		HistoryLimit:  50,
	}
}

func testRecipients(t *testing.T, n int) []string {
	t.Helper()
	addrs := make([]string, n)
	for i := range addrs {
		w, err := domain.WalletFromSeed(bytes.Repeat([]byte{byte(i + 10)}, 32))
		require.NoError(t, err)
		addrs[i] = w.Address
	}
	return addrs
}

func intentsFor(addrs []string, tokens uint64) []domain.TransferIntent {
	intents := make([]domain.TransferIntent, len(addrs))
	for i, addr := range addrs {
		intents[i] = domain.TransferIntent{
			To:     addr,
			Amount: uint256.NewInt(tokens * domain.MicroPerToken),
		}
	}
	return intents
}
