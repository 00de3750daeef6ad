package service

import (
	"github.com/robynasuro/octra-client/domain"
)

// EffectiveNonce merges the confirmed nonce with the wallet's own pending
// entries to compute the highest sequence number already claimed. The next
// safely usable nonce is this value plus one.
//
// Pure and deterministic: identical snapshots always yield the same result,
// and the result never goes below the confirmed nonce. Entries authored by
// other wallets are ignored. A ledger that has never seen the wallet reports
// nonce zero, which is the correct floor, not an error.
func EffectiveNonce(addr string, state domain.ConfirmedState, pending []domain.PendingPoolEntry) uint64 {
	nonce := state.Nonce
	for _, entry := range pending {
		if entry.From == addr && entry.Nonce > nonce {
			nonce = entry.Nonce
		}
	}
	return nonce
}
