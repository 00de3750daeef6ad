package cmd

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/robynasuro/octra-client/domain"
)

// loadWallet reads a wallet key file holding an ed25519 seed or private key,
// hex or base64 encoded, and derives the wallet.
func loadWallet(path string) (domain.Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Wallet{}, err
	}
	return parseWalletKey(strings.TrimSpace(string(data)))
}

func parseWalletKey(encoded string) (domain.Wallet, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return domain.Wallet{}, fmt.Errorf("key is neither hex nor base64")
		}
	}

	switch len(raw) {
	case ed25519.SeedSize:
		return domain.WalletFromSeed(raw)
	case ed25519.PrivateKeySize:
		return domain.WalletFromSeed(ed25519.PrivateKey(raw).Seed())
	default:
		return domain.Wallet{}, fmt.Errorf("key must be a %d-byte seed or %d-byte private key, got %d bytes",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}
