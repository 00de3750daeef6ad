package crypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"strconv"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
)

// ErrNoKeypair is returned when a wallet cannot sign.
var ErrNoKeypair = errors.NewError(errors.ErrCodeMissingKeypair, "wallet has no usable keypair")

// Serialize produces the canonical signable payload: a byte-stable JSON
// object with a fixed field order. Message is excluded; the ledger only
// authenticates the transfer itself.
func Serialize(tx *domain.Tx) []byte {
	amount := "0"
	if tx.Amount != nil {
		amount = tx.Amount.String()
	}
	payload := `{"from":"` + tx.From +
		`","to_":"` + tx.To +
		`","amount":"` + amount +
		`","nonce":` + strconv.FormatUint(tx.Nonce, 10) +
		`,"ou":"` + tx.Ou +
		`","timestamp":` + strconv.FormatFloat(tx.Timestamp, 'f', 6, 64) + `}`
	return []byte(payload)
}

// SignTx signs the canonical payload with the wallet's private key and
// attaches the base64 signature and public key to produce the transmissible
// envelope. Accepts either a 32-byte seed or a full 64-byte private key.
func SignTx(tx *domain.Tx, privKey ed25519.PrivateKey) (domain.SignedTx, error) {
	switch len(privKey) {
	case ed25519.SeedSize:
		privKey = ed25519.NewKeyFromSeed(privKey)
	case ed25519.PrivateKeySize:
	default:
		return domain.SignedTx{}, ErrNoKeypair
	}

	payload := Serialize(tx)
	signature := ed25519.Sign(privKey, payload)
	pubKey := privKey.Public().(ed25519.PublicKey)

	return domain.SignedTx{
		Tx:     tx,
		Sig:    base64.StdEncoding.EncodeToString(signature),
		PubKey: base64.StdEncoding.EncodeToString(pubKey),
	}, nil
}

// Verify checks a base64 signature over the canonical payload against a
// base64 public key.
func Verify(tx *domain.Tx, sig, pubKey string) bool {
	pub, err := base64.StdEncoding.DecodeString(pubKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	signature, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), Serialize(tx), signature)
}
