package domain

import (
	"time"

	"github.com/holiman/uint256"
)

// ConfirmedState is the ledger's finalized view of one address. Read-only to
// this client; refreshed through the state cache.
type ConfirmedState struct {
	Balance   *uint256.Int
	Nonce     uint64
	FetchedAt time.Time
}

// PendingPoolEntry is a transaction the ledger has accepted into its
// unconfirmed pool but not yet finalized. Entries authored by other wallets
// are visible but irrelevant to nonce computation.
type PendingPoolEntry struct {
	From      string
	To        string
	Amount    *uint256.Int // micro-units
	Nonce     uint64
	Hash      string
	Timestamp float64
	Message   string
}

// TxRef is one item of an address-history listing: a hash, optionally tagged
// with the epoch that finalized it.
type TxRef struct {
	Hash     string
	Epoch    uint64
	HasEpoch bool
}

// TxRecord is the parsed detail of a confirmed transaction. Immutable once
// fetched.
type TxRecord struct {
	Hash      string
	From      string
	To        string
	Amount    *uint256.Int // micro-units
	Nonce     uint64
	Timestamp float64
	Message   string
}

// TransferIntent is a user-supplied transfer not yet assigned a nonce. Amount
// is already scaled to micro-units.
type TransferIntent struct {
	To      string
	Amount  *uint256.Int
	Message string
}

// TxDirection tags a history entry relative to the owning wallet.
type TxDirection string

const (
	DirectionIn  TxDirection = "in"
	DirectionOut TxDirection = "out"
)

// ProcessedTx is one row of the merged history feed.
type ProcessedTx struct {
	Hash      string
	Direction TxDirection
	Amount    float64 // whole tokens
	From      string
	To        string
	Nonce     uint64
	Timestamp float64
	Message   string
	Epoch     uint64
	HasEpoch  bool
	Pending   bool
	OK        bool
}

// PoolInfo is the opaque pool diagnostic some nodes attach to an accepted
// submission.
type PoolInfo map[string]interface{}

// SubmitReceipt is the normalized acceptance of one submission, whatever
// shape the node answered in.
type SubmitReceipt struct {
	Hash     string
	PoolInfo PoolInfo
}

// SubmitResult is the per-intent outcome of a batch submission. Exactly one
// of Hash/Err is meaningful; Err nil means accepted.
type SubmitResult struct {
	Nonce        uint64
	Hash         string
	ResponseTime float64 // seconds
	PoolInfo     PoolInfo
	Err          error
}

// Ok reports whether the intent was accepted by the ledger.
func (r SubmitResult) Ok() bool { return r.Err == nil }
