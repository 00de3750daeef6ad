package common

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/robynasuro/octra-client/errors"
)

// AddressPrefix marks a ledger address derived from an ed25519 public key.
const AddressPrefix = "oct"

const addressHashLength = sha256.Size

// AddressFromPubKey derives the ledger address for an ed25519 public key:
// the base58 encoding of its sha256 digest behind the "oct" prefix.
func AddressFromPubKey(pub ed25519.PublicKey) string {
	digest := sha256.Sum256(pub)
	return AddressPrefix + EncodeBytesToBase58(digest[:])
}

// ValidateAddress checks that addr carries the oct prefix and a base58 body
// that decodes back to a 32-byte digest.
func ValidateAddress(addr string) error {
	if len(addr) <= len(AddressPrefix) || addr[:len(AddressPrefix)] != AddressPrefix {
		return errors.NewError(errors.ErrCodeInvalidAddress,
			fmt.Sprintf("address %q does not carry the %q prefix", addr, AddressPrefix))
	}
	body, err := DecodeBase58ToBytes(addr[len(AddressPrefix):])
	if err != nil {
		return errors.NewError(errors.ErrCodeInvalidAddress,
			fmt.Sprintf("address %q body is not base58", addr))
	}
	if len(body) != addressHashLength {
		return errors.NewError(errors.ErrCodeInvalidAddress,
			fmt.Sprintf("address %q decodes to %d bytes, want %d", addr, len(body), addressHashLength))
	}
	return nil
}
