package service

import (
	"context"

	"github.com/robynasuro/octra-client/domain"
)

// LedgerClient is the outbound surface this service layer needs from the
// ledger node. client.OctraClient satisfies it; tests substitute fakes.
type LedgerClient interface {
	GetConfirmedState(ctx context.Context, addr string) (domain.ConfirmedState, error)
	GetPendingPool(ctx context.Context) ([]domain.PendingPoolEntry, error)
	GetAddressHistory(ctx context.Context, addr string, limit int) ([]domain.TxRef, error)
	GetTxDetail(ctx context.Context, hash string) (domain.TxRecord, error)
	SubmitTx(ctx context.Context, tx domain.SignedTx) (domain.SubmitReceipt, error)
}
