package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robynasuro/octra-client/cache"
	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
	"github.com/robynasuro/octra-client/exception"
	"github.com/robynasuro/octra-client/logx"
)

// HistoryService combines confirmed records with the wallet's own pending
// entries into one deduplicated, newest-first feed.
type HistoryService struct {
	bc      LedgerClient
	pending *cache.PendingCache
	limit   int
}

func NewHistoryService(bc LedgerClient, pending *cache.PendingCache, limit int) *HistoryService {
	return &HistoryService{bc: bc, pending: pending, limit: limit}
}

// Merged returns up to limit entries for addr, newest first. Confirmed
// records are emitted first and win deduplication by hash; pending entries
// authored by the wallet fill in what the ledger has not finalized yet. A
// wallet with no ledger history is an empty-but-valid starting point, so a
// not-found history listing still surfaces pending-only entries.
func (s *HistoryService) Merged(ctx context.Context, addr string) ([]domain.ProcessedTx, error) {
	refs, err := s.bc.GetAddressHistory(ctx, addr, s.limit)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		refs = nil
	}

	// Detail fetches run concurrently; a failed fetch leaves a nil slot and
	// its reference is dropped without failing the merge.
	details := make([]*domain.TxRecord, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		i, ref := i, ref
		wg.Add(1)
		exception.SafeGo(fmt.Sprintf("tx-detail-%d", i), func() {
			defer wg.Done()
			record, err := s.bc.GetTxDetail(ctx, ref.Hash)
			if err != nil {
				logx.Debug("HISTORY", "Dropping ", ref.Hash, ": detail fetch failed: ", err)
				return
			}
			details[i] = &record
		})
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(refs))
	merged := make([]domain.ProcessedTx, 0, len(refs))
	for i, ref := range refs {
		record := details[i]
		if record == nil {
			continue
		}
		if _, dup := seen[ref.Hash]; dup {
			continue
		}
		seen[ref.Hash] = struct{}{}
		merged = append(merged, domain.ProcessedTx{
			Hash:      ref.Hash,
			Direction: directionFor(addr, record.To),
			Amount:    domain.MicroToTokens(record.Amount),
			From:      record.From,
			To:        record.To,
			Nonce:     record.Nonce,
			Timestamp: record.Timestamp,
			Message:   record.Message,
			Epoch:     ref.Epoch,
			HasEpoch:  ref.HasEpoch,
			OK:        true,
		})
	}

	pool, err := s.pending.Get(ctx)
	if err != nil {
		logx.Warn("HISTORY", "Pending pool unavailable, feed is confirmed-only: ", err)
		pool = nil
	}
	for _, entry := range pool {
		if entry.From != addr {
			continue
		}
		if _, dup := seen[entry.Hash]; dup {
			continue
		}
		seen[entry.Hash] = struct{}{}
		// Pending entries are never epoch-tagged, and optimistically OK
		// until the ledger says otherwise.
		merged = append(merged, domain.ProcessedTx{
			Hash:      entry.Hash,
			Direction: directionFor(addr, entry.To),
			Amount:    domain.MicroToTokens(entry.Amount),
			From:      entry.From,
			To:        entry.To,
			Nonce:     entry.Nonce,
			Timestamp: entry.Timestamp,
			Message:   entry.Message,
			Pending:   true,
			OK:        true,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	if len(merged) > s.limit {
		merged = merged[:s.limit]
	}
	return merged, nil
}

func directionFor(addr, recipient string) domain.TxDirection {
	if recipient == addr {
		return domain.DirectionIn
	}
	return domain.DirectionOut
}
