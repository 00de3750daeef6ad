package domain

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/robynasuro/octra-client/common"
	"github.com/robynasuro/octra-client/errors"
	"github.com/robynasuro/octra-client/jsonx"
)

// Tx is the unsigned transfer envelope. Message rides along unsigned; the
// canonical signable payload deliberately excludes it.
type Tx struct {
	From      string
	To        string
	Amount    *uint256.Int // micro-units
	Nonce     uint64
	Ou        string // fee-tier code
	Timestamp float64
	Message   string
}

// txJSON is the wire shape of an envelope.
type txJSON struct {
	From      string  `json:"from"`
	To        string  `json:"to_"`
	Amount    string  `json:"amount"`
	Nonce     uint64  `json:"nonce"`
	Ou        string  `json:"ou"`
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message,omitempty"`
	Signature string  `json:"signature,omitempty"`
	PublicKey string  `json:"public_key,omitempty"`
}

func (tx *Tx) MarshalJSON() ([]byte, error) {
	amountStr := "0"
	if tx.Amount != nil {
		amountStr = tx.Amount.String()
	}

	return jsonx.Marshal(&txJSON{
		From:      tx.From,
		To:        tx.To,
		Amount:    amountStr,
		Nonce:     tx.Nonce,
		Ou:        tx.Ou,
		Timestamp: tx.Timestamp,
		Message:   tx.Message,
	})
}

func (tx *Tx) UnmarshalJSON(data []byte) error {
	var aux txJSON
	if err := jsonx.Unmarshal(data, &aux); err != nil {
		return err
	}

	tx.From = aux.From
	tx.To = aux.To
	tx.Nonce = aux.Nonce
	tx.Ou = aux.Ou
	tx.Timestamp = aux.Timestamp
	tx.Message = aux.Message

	if aux.Amount == "" {
		tx.Amount = uint256.NewInt(0)
		return nil
	}
	amount, err := uint256.FromDecimal(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}
	tx.Amount = amount
	return nil
}

// SignedTx is the transmissible unit: the envelope plus base64 signature and
// public key.
type SignedTx struct {
	Tx     *Tx
	Sig    string
	PubKey string
}

func (s *SignedTx) MarshalJSON() ([]byte, error) {
	amountStr := "0"
	if s.Tx.Amount != nil {
		amountStr = s.Tx.Amount.String()
	}
	return jsonx.Marshal(&txJSON{
		From:      s.Tx.From,
		To:        s.Tx.To,
		Amount:    amountStr,
		Nonce:     s.Tx.Nonce,
		Ou:        s.Tx.Ou,
		Timestamp: s.Tx.Timestamp,
		Message:   s.Tx.Message,
		Signature: s.Sig,
		PublicKey: s.PubKey,
	})
}

// BuildTransferTx assembles an unsigned envelope, validating everything that
// can fail before a network call: address formats and a positive amount. The
// fee tier is derived from the amount.
func BuildTransferTx(from, to string, amount *uint256.Int, nonce uint64, ts float64, message string) (*Tx, error) {
	if err := common.ValidateAddress(from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := common.ValidateAddress(to); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	if amount == nil || amount.IsZero() {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, "amount must be > 0")
	}

	return &Tx{
		From:      from,
		To:        to,
		Amount:    amount,
		Nonce:     nonce,
		Ou:        FeeTierForAmount(amount),
		Timestamp: ts,
		Message:   message,
	}, nil
}
