package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/robynasuro/octra-client/cache"
	"github.com/robynasuro/octra-client/config"
	"github.com/robynasuro/octra-client/crypto"
	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
	"github.com/robynasuro/octra-client/exception"
	"github.com/robynasuro/octra-client/logx"
	"github.com/robynasuro/octra-client/monitoring"
)

// ProgressFunc observes batch progress after each completed chunk. sent is
// monotonic and reaches total exactly once.
type ProgressFunc func(sent, total int)

// TxService builds, signs and submits transfer transactions, and keeps the
// local caches coherent with what it just submitted.
type TxService struct {
	bc            LedgerClient
	states        *cache.StateCache
	pending       *cache.PendingCache
	chunkSize     int
	submitTimeout time.Duration
}

func NewTxService(bc LedgerClient, states *cache.StateCache, pending *cache.PendingCache, tuning config.TuningConfig) *TxService {
	return &TxService{
		bc:            bc,
		states:        states,
		pending:       pending,
		chunkSize:     tuning.ChunkSize,
		submitTimeout: tuning.SubmitTimeout,
	}
}

// timestamp returns the current time in seconds with a sub-10ms random
// jitter, so two transactions built in the same instant rarely share a
// timestamp. No security meaning.
func (s *TxService) timestamp() float64 {
	return float64(time.Now().UnixNano())/float64(time.Second) + rand.Float64()/100
}

// buildTransfer constructs and signs one envelope with its pre-assigned
// nonce, self-verifying the signature before it goes anywhere.
func (s *TxService) buildTransfer(w domain.Wallet, intent domain.TransferIntent, nonce uint64) (domain.SignedTx, error) {
	if !w.HasKeypair() {
		return domain.SignedTx{}, crypto.ErrNoKeypair
	}
	unsigned, err := domain.BuildTransferTx(w.Address, intent.To, intent.Amount, nonce, s.timestamp(), intent.Message)
	if err != nil {
		return domain.SignedTx{}, err
	}
	signed, err := crypto.SignTx(unsigned, w.PrivKey)
	if err != nil {
		return domain.SignedTx{}, err
	}
	if !crypto.Verify(unsigned, signed.Sig, signed.PubKey) {
		return domain.SignedTx{}, errors.NewError(errors.ErrCodeInternal, "self verify failed")
	}
	return signed, nil
}

// submitOne runs the full path for a single intent with an already-assigned
// nonce: build, sign, submit under the per-item deadline, reconcile on
// acceptance. It never returns an error past its result value.
func (s *TxService) submitOne(ctx context.Context, w domain.Wallet, intent domain.TransferIntent, nonce uint64) domain.SubmitResult {
	result := domain.SubmitResult{Nonce: nonce}

	signed, err := s.buildTransfer(w, intent, nonce)
	if err != nil {
		monitoring.RecordSubmit(monitoring.SubmitInvalid, 0)
		result.Err = err
		return result
	}

	subCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	start := time.Now()
	receipt, err := s.bc.SubmitTx(subCtx, signed)
	elapsed := time.Since(start)
	if err != nil {
		if subCtx.Err() == context.DeadlineExceeded && !errors.IsTimeout(err) {
			err = errors.NewError(errors.ErrCodeTimeout,
				fmt.Sprintf("submission with nonce %d exceeded its %s deadline", nonce, s.submitTimeout))
		}
		switch errors.CodeOf(err) {
		case errors.ErrCodeTimeout:
			monitoring.RecordSubmit(monitoring.SubmitTimeout, elapsed)
		case errors.ErrCodeTxRejected:
			monitoring.RecordSubmit(monitoring.SubmitRejected, elapsed)
		default:
			monitoring.RecordSubmit(monitoring.SubmitTransport, elapsed)
		}
		logx.Warn("TX", "Submit nonce ", nonce, " failed: ", err)
		result.Err = err
		return result
	}

	result.Hash = receipt.Hash
	result.ResponseTime = elapsed.Seconds()
	result.PoolInfo = receipt.PoolInfo
	monitoring.RecordSubmit(monitoring.SubmitAccepted, elapsed)

	s.reconcile(w, intent, nonce, receipt.Hash)
	return result
}

// reconcile injects the accepted transaction into the shared pending view and
// schedules a confirmed-state refresh. Best effort: nothing here blocks or
// fails the success already returned to the caller.
func (s *TxService) reconcile(w domain.Wallet, intent domain.TransferIntent, nonce uint64, hash string) {
	s.pending.Prepend(domain.PendingPoolEntry{
		From:      w.Address,
		To:        intent.To,
		Amount:    intent.Amount,
		Nonce:     nonce,
		Hash:      hash,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Message:   intent.Message,
	})
	exception.SafeGo("state-invalidate", func() {
		s.states.Invalidate(w.Address)
	})
}

// Send submits a single transfer with the next usable nonce.
func (s *TxService) Send(ctx context.Context, w domain.Wallet, intent domain.TransferIntent) (domain.SubmitResult, error) {
	results, err := s.SendAll(ctx, w, []domain.TransferIntent{intent}, nil)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	return results[0], nil
}

// SendAll submits every intent, in chunks dispatched concurrently. Nonces are
// assigned to all intents synchronously, before the first network call; that
// pre-assignment is the only thing keeping concurrent submissions in one pass
// from claiming the same nonce. Intents that fail local validation consume
// their nonce slot but never reach the network. The returned slice matches
// the input order, one outcome per intent.
func (s *TxService) SendAll(ctx context.Context, w domain.Wallet, intents []domain.TransferIntent, progress ProgressFunc) ([]domain.SubmitResult, error) {
	if len(intents) == 0 {
		return nil, nil
	}

	state, err := s.states.Get(ctx, w.Address)
	if err != nil {
		return nil, err
	}
	pool, err := s.pending.Get(ctx)
	if err != nil {
		return nil, err
	}
	base := EffectiveNonce(w.Address, state, pool)

	total := len(intents)
	results := make([]domain.SubmitResult, total)
	nonces := make([]uint64, total)
	for i := range intents {
		nonces[i] = base + 1 + uint64(i)
	}

	// Local validation against the confirmed balance: intents whose
	// cumulative spend exceeds it fail here, before any network call.
	precheck := make([]error, total)
	spent := uint256.NewInt(0)
	for i, intent := range intents {
		if intent.Amount == nil {
			continue // caught by the builder
		}
		next := new(uint256.Int).Add(spent, intent.Amount)
		if state.Balance != nil && next.Gt(state.Balance) {
			precheck[i] = errors.NewError(errors.ErrCodeInsufficientBalance,
				fmt.Sprintf("intent %d needs more than the confirmed balance", i))
			continue
		}
		spent = next
	}

	logx.Info("TX", "Submitting ", total, " transfers from ", w.Address, " with nonces ", nonces[0], "..", nonces[total-1])

	for start := 0; start < total; start += s.chunkSize {
		end := start + s.chunkSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			i := i
			wg.Add(1)
			exception.SafeGo(fmt.Sprintf("submit-%d", i), func() {
				defer wg.Done()
				if precheck[i] != nil {
					monitoring.RecordSubmit(monitoring.SubmitInvalid, 0)
					results[i] = domain.SubmitResult{Nonce: nonces[i], Err: precheck[i]}
					return
				}
				results[i] = s.submitOne(ctx, w, intents[i], nonces[i])
			})
		}
		wg.Wait()

		if progress != nil {
			progress(end, total)
		}
	}

	return results, nil
}
