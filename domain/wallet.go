package domain

import (
	"crypto/ed25519"

	"github.com/robynasuro/octra-client/common"
	"github.com/robynasuro/octra-client/errors"
)

// Wallet is the process-owned keypair and its derived ledger address. The
// private key never leaves the process; only the public key and signatures go
// on the wire.
type Wallet struct {
	Address string
	PubKey  ed25519.PublicKey
	PrivKey ed25519.PrivateKey
}

// WalletFromSeed expands a 32-byte ed25519 seed into a usable wallet.
func WalletFromSeed(seed []byte) (Wallet, error) {
	if len(seed) != ed25519.SeedSize {
		return Wallet{}, errors.NewError(errors.ErrCodeMissingKeypair, "wallet seed must be 32 bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return Wallet{
		Address: common.AddressFromPubKey(pub),
		PubKey:  pub,
		PrivKey: priv,
	}, nil
}

// HasKeypair reports whether the wallet can sign.
func (w Wallet) HasKeypair() bool {
	return len(w.PrivKey) == ed25519.PrivateKeySize && len(w.PubKey) == ed25519.PublicKeySize
}
