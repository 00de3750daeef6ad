package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
)

func TestSendAllAssignsSequentialNonces(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	var progress [][2]int
	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 7), 1),
		func(sent, total int) { progress = append(progress, [2]int{sent, total}) })
	require.NoError(t, err)
	require.Len(t, results, 7)

	for i, result := range results {
		require.NoError(t, result.Err, "intent %d", i)
		assert.Equal(t, uint64(11+i), result.Nonce)
		assert.NotEmpty(t, result.Hash)
	}
	assert.Equal(t, [][2]int{{5, 7}, {7, 7}}, progress)
}

func TestSendAllChunkBoundariesDoNotAffectNonces(t *testing.T) {
	ledger := newFakeLedger(100, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 12), 1), nil)
	require.NoError(t, err)
	require.Len(t, results, 12)

	seen := make(map[uint64]bool)
	for i, result := range results {
		require.NoError(t, result.Err)
		assert.Equal(t, uint64(101+i), result.Nonce, "nonces follow input order across chunks")
		assert.False(t, seen[result.Nonce], "nonce assignment must be injective")
		seen[result.Nonce] = true
	}
}

func TestSendAllChunksRunSequentially(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	// Slow every first-chunk submission so a premature second chunk would
	// overtake it in the recorded order.
	for nonce := uint64(11); nonce <= 15; nonce++ {
		ledger.submitDelay[nonce] = 20 * time.Millisecond
	}
	h := newHarness(t, ledger, testTuning())

	_, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 7), 1), nil)
	require.NoError(t, err)

	order := ledger.submittedNonces()
	require.Len(t, order, 7)
	firstChunk := order[:5]
	for _, nonce := range firstChunk {
		assert.LessOrEqual(t, nonce, uint64(15), "first five dispatches are all chunk-one nonces")
	}
	for _, nonce := range order[5:] {
		assert.Greater(t, nonce, uint64(15), "chunk two starts only after chunk one drains")
	}
}

func TestSendAllIsolatesTimeout(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	ledger.submitDelay[13] = 500 * time.Millisecond

	tuning := testTuning()
	tuning.SubmitTimeout = 50 * time.Millisecond
	h := newHarness(t, ledger, tuning)

	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 5), 1), nil)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, result := range results {
		if i == 2 {
			require.Error(t, result.Err)
			assert.True(t, errors.IsTimeout(result.Err), "slot 2 fails with timeout, got %v", result.Err)
			continue
		}
		assert.NoError(t, result.Err, "siblings of a timed-out intent still complete")
	}
}

func TestSendAllIsolatesRejection(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	ledger.submitErr[12] = errors.NewError(errors.ErrCodeTxRejected, "nonce too low")
	h := newHarness(t, ledger, testTuning())

	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 3), 1), nil)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	assert.Equal(t, errors.ErrCodeTxRejected, errors.CodeOf(results[1].Err))
	assert.NoError(t, results[2].Err)
}

func TestSendAllLocalValidationSkipsNetwork(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	intents := intentsFor(testRecipients(t, 3), 1)
	intents[1].To = "not-an-address"

	results, err := h.tx.SendAll(context.Background(), h.wallet, intents, nil)
	require.NoError(t, err)

	require.Error(t, results[1].Err)
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(results[1].Err))
	assert.Equal(t, uint64(12), results[1].Nonce, "failed intent still consumes its nonce slot")
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[2].Err)
	assert.Len(t, ledger.submittedNonces(), 2, "invalid intent never reaches the network")
}

func TestSendAllInsufficientBalance(t *testing.T) {
	ledger := newFakeLedger(10, 100)
	h := newHarness(t, ledger, testTuning())

	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 2), 60), nil)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	assert.Equal(t, errors.ErrCodeInsufficientBalance, errors.CodeOf(results[1].Err))
	assert.Len(t, ledger.submittedNonces(), 1, "over-budget intent fails before any network call")
}

func TestSendAllUsesPendingNonces(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	// The wallet already has nonce 14 pending; own pending knowledge wins
	// over the confirmed nonce.
	ledger.mu.Lock()
	ledger.pool = []domain.PendingPoolEntry{
		{From: h.wallet.Address, Nonce: 14, Hash: "pending14"},
		{From: "octSomeoneElse", Nonce: 99, Hash: "foreign99"},
	}
	ledger.mu.Unlock()

	results, err := h.tx.SendAll(context.Background(), h.wallet, intentsFor(testRecipients(t, 2), 1), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), results[0].Nonce)
	assert.Equal(t, uint64(16), results[1].Nonce)
}

func TestSendReconcilesCaches(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())
	ctx := context.Background()

	result, err := h.tx.Send(ctx, h.wallet, intentsFor(testRecipients(t, 1), 1)[0])
	require.NoError(t, err)
	require.NoError(t, result.Err)

	// The accepted transaction is visible in the merged pending view before
	// any server refresh.
	view, err := h.pending.Get(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, view)
	assert.Equal(t, result.Hash, view[0].Hash)
	assert.Equal(t, uint64(11), view[0].Nonce)
	assert.Equal(t, h.wallet.Address, view[0].From)

	// Confirmed state was invalidated in the background; the next read
	// refetches.
	assert.Eventually(t, func() bool {
		_, err := h.states.Get(ctx, h.wallet.Address)
		return err == nil && ledger.stateFetchCount() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestSendAllSubsequentBatchContinuesNonces(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())
	ctx := context.Background()

	first, err := h.tx.SendAll(ctx, h.wallet, intentsFor(testRecipients(t, 3), 1), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(13), first[2].Nonce)

	// The optimistic entries feed the oracle, so a second pass picks up
	// where the first left off even though nothing confirmed yet.
	second, err := h.tx.SendAll(ctx, h.wallet, intentsFor(testRecipients(t, 2), 1), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), second[0].Nonce)
	assert.Equal(t, uint64(15), second[1].Nonce)
}

func TestSendAllEmptyInput(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	results, err := h.tx.SendAll(context.Background(), h.wallet, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSendAllWithoutKeypair(t *testing.T) {
	ledger := newFakeLedger(10, 1_000_000)
	h := newHarness(t, ledger, testTuning())

	unsigned := domain.Wallet{Address: h.wallet.Address}
	results, err := h.tx.SendAll(context.Background(), unsigned, intentsFor(testRecipients(t, 1), 1), nil)
	require.NoError(t, err)
	require.Error(t, results[0].Err)
	assert.Equal(t, errors.ErrCodeMissingKeypair, errors.CodeOf(results[0].Err))
}
