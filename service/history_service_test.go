package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
)

func confirmedRecord(hash, from, to string, ts float64) domain.TxRecord {
	return domain.TxRecord{
		Hash:      hash,
		From:      from,
		To:        to,
		Amount:    uint256.NewInt(10_500_000),
		Nonce:     4,
		Timestamp: ts,
	}
}

func TestMergedDeduplicatesByHash(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())
	addr := h.wallet.Address

	ledger.refs = []domain.TxRef{{Hash: "h1", Epoch: 7, HasEpoch: true}}
	ledger.details["h1"] = confirmedRecord("h1", addr, "octB", 100)
	// The same hash still sits in the pending pool.
	ledger.pool = []domain.PendingPoolEntry{
		{From: addr, To: "octB", Amount: uint256.NewInt(10_500_000), Nonce: 4, Hash: "h1", Timestamp: 100},
	}

	feed, err := h.history.Merged(context.Background(), addr)
	require.NoError(t, err)
	require.Len(t, feed, 1, "a hash seen once is never emitted twice")
	assert.False(t, feed[0].Pending, "confirmed record takes precedence")
	assert.True(t, feed[0].HasEpoch)
	assert.Equal(t, uint64(7), feed[0].Epoch)
	assert.Equal(t, 10.5, feed[0].Amount)
}

func TestMergedNotFoundStillSurfacesPending(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())
	addr := h.wallet.Address

	ledger.refsErr = errors.NewError(errors.ErrCodeNotFound, "no history for address")
	ledger.pool = []domain.PendingPoolEntry{
		{From: addr, To: "octB", Amount: uint256.NewInt(1_000_000), Nonce: 11, Hash: "p1", Timestamp: 200},
		{From: addr, To: "octC", Amount: uint256.NewInt(2_000_000), Nonce: 12, Hash: "p2", Timestamp: 300},
	}

	feed, err := h.history.Merged(context.Background(), addr)
	require.NoError(t, err, "not-found history is empty-but-valid")
	require.Len(t, feed, 2)
	for _, tx := range feed {
		assert.True(t, tx.Pending)
		assert.True(t, tx.OK, "pending entries are optimistically OK")
		assert.False(t, tx.HasEpoch, "pending entries are never epoch-tagged")
	}
	assert.Equal(t, "p2", feed[0].Hash, "newest first")
}

func TestMergedDropsFailedDetailFetches(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())
	addr := h.wallet.Address

	ledger.refs = []domain.TxRef{{Hash: "h1"}, {Hash: "h2"}, {Hash: "h3"}}
	ledger.details["h1"] = confirmedRecord("h1", addr, "octB", 100)
	ledger.badHash["h2"] = fmt.Errorf("detail fetch exploded")
	ledger.details["h3"] = confirmedRecord("h3", "octB", addr, 300)

	feed, err := h.history.Merged(context.Background(), addr)
	require.NoError(t, err, "one failed detail must not fail the merge")
	require.Len(t, feed, 2)
	assert.Equal(t, "h3", feed[0].Hash)
	assert.Equal(t, "h1", feed[1].Hash)
}

func TestMergedDirections(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())
	addr := h.wallet.Address

	ledger.refs = []domain.TxRef{{Hash: "out1"}, {Hash: "in1"}}
	ledger.details["out1"] = confirmedRecord("out1", addr, "octB", 100)
	ledger.details["in1"] = confirmedRecord("in1", "octB", addr, 200)

	feed, err := h.history.Merged(context.Background(), addr)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, domain.DirectionIn, feed[0].Direction)
	assert.Equal(t, domain.DirectionOut, feed[1].Direction)
}

func TestMergedIgnoresForeignPending(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())

	ledger.pool = []domain.PendingPoolEntry{
		{From: "octSomeoneElse", To: "octB", Amount: uint256.NewInt(1), Nonce: 1, Hash: "x1", Timestamp: 100},
	}
	ledger.refsErr = errors.NewError(errors.ErrCodeNotFound, "no history")

	feed, err := h.history.Merged(context.Background(), h.wallet.Address)
	require.NoError(t, err)
	assert.Empty(t, feed, "other wallets' pending entries never enter the feed")
}

func TestMergedSortsAndTruncates(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	tuning := testTuning()
	tuning.HistoryLimit = 3
	h := newHarness(t, ledger, tuning)
	addr := h.wallet.Address

	for i := 0; i < 5; i++ {
		hash := fmt.Sprintf("h%d", i)
		ledger.refs = append(ledger.refs, domain.TxRef{Hash: hash})
		ledger.details[hash] = confirmedRecord(hash, addr, "octB", float64(100+i))
	}

	feed, err := h.history.Merged(context.Background(), addr)
	require.NoError(t, err)
	require.Len(t, feed, 3, "feed is length-capped")
	assert.Equal(t, "h4", feed[0].Hash)
	assert.Equal(t, "h3", feed[1].Hash)
	assert.Equal(t, "h2", feed[2].Hash)
}

func TestMergedTransportErrorPropagates(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())

	ledger.refsErr = errors.NewError(errors.ErrCodeConnectionFailed, "node unreachable")
	_, err := h.history.Merged(context.Background(), h.wallet.Address)
	require.Error(t, err, "only not-found maps to empty; transport errors propagate")
}
