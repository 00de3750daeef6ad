package client

import (
	"strconv"
	"strings"
	"time"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
	"github.com/robynasuro/octra-client/jsonx"
	"github.com/robynasuro/octra-client/logx"
)

// flexNumber decodes a numeric field that nodes emit as either a JSON number
// or a quoted string, depending on version.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := jsonx.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = flexNumber(str)
		return nil
	}
	*n = flexNumber(s)
	return nil
}

func (n flexNumber) String() string { return string(n) }

func parseUint(n flexNumber) (uint64, error) {
	s := string(n)
	if s == "" {
		return 0, errors.NewError(errors.ErrCodeRPCStatus, "empty numeric field")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.NewError(errors.ErrCodeRPCStatus, "non-integer numeric field "+s)
	}
	return v, nil
}

type balanceResponse struct {
	Balance flexNumber `json:"balance"`
	Nonce   flexNumber `json:"nonce"`
}

func (r balanceResponse) toDomain() (domain.ConfirmedState, error) {
	balance, err := domain.ParseRawMicro(r.Balance.String())
	if err != nil {
		return domain.ConfirmedState{}, err
	}
	// A missing or malformed nonce is a zero floor, never an error.
	nonce, _ := parseUint(r.Nonce)
	return domain.ConfirmedState{
		Balance:   balance,
		Nonce:     nonce,
		FetchedAt: time.Now(),
	}, nil
}

type stagedTx struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Amount    flexNumber `json:"amount"`
	AmountRaw flexNumber `json:"amount_raw"`
	Nonce     flexNumber `json:"nonce"`
	Hash      string     `json:"hash"`
	Timestamp float64    `json:"timestamp"`
	Message   string     `json:"message"`
}

type stagingResponse struct {
	StagedTransactions []stagedTx `json:"staged_transactions"`
}

func (r stagingResponse) toDomain() []domain.PendingPoolEntry {
	entries := make([]domain.PendingPoolEntry, 0, len(r.StagedTransactions))
	for _, tx := range r.StagedTransactions {
		raw := tx.AmountRaw.String()
		if raw == "" {
			raw = tx.Amount.String()
		}
		amount, err := domain.ParseRawMicro(raw)
		if err != nil {
			logx.Warn("RPC", "Dropping staged tx ", tx.Hash, " with bad amount: ", err)
			continue
		}
		nonce, _ := parseUint(tx.Nonce)
		entries = append(entries, domain.PendingPoolEntry{
			From:      tx.From,
			To:        tx.To,
			Amount:    amount,
			Nonce:     nonce,
			Hash:      tx.Hash,
			Timestamp: tx.Timestamp,
			Message:   tx.Message,
		})
	}
	return entries
}

type historyRef struct {
	Hash  string      `json:"hash"`
	Epoch *flexNumber `json:"epoch"`
}

type historyResponse struct {
	RecentTransactions []historyRef `json:"recent_transactions"`
}

func (r historyResponse) toDomain() []domain.TxRef {
	refs := make([]domain.TxRef, 0, len(r.RecentTransactions))
	for _, ref := range r.RecentTransactions {
		out := domain.TxRef{Hash: ref.Hash}
		if ref.Epoch != nil {
			if epoch, err := parseUint(*ref.Epoch); err == nil {
				out.Epoch = epoch
				out.HasEpoch = true
			}
		}
		refs = append(refs, out)
	}
	return refs
}

type parsedTx struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Amount    flexNumber `json:"amount"`
	AmountRaw flexNumber `json:"amount_raw"`
	Nonce     flexNumber `json:"nonce"`
	Timestamp float64    `json:"timestamp"`
	Message   string     `json:"message"`
}

type txDetailResponse struct {
	ParsedTx parsedTx `json:"parsed_tx"`
}

func (r txDetailResponse) toDomain(hash string) (domain.TxRecord, error) {
	raw := r.ParsedTx.AmountRaw.String()
	if raw == "" {
		raw = r.ParsedTx.Amount.String()
	}
	amount, err := domain.ParseRawMicro(raw)
	if err != nil {
		return domain.TxRecord{}, err
	}
	nonce, _ := parseUint(r.ParsedTx.Nonce)
	return domain.TxRecord{
		Hash:      hash,
		From:      r.ParsedTx.From,
		To:        r.ParsedTx.To,
		Amount:    amount,
		Nonce:     nonce,
		Timestamp: r.ParsedTx.Timestamp,
		Message:   r.ParsedTx.Message,
	}, nil
}

type submitResponse struct {
	Status   string          `json:"status"`
	TxHash   string          `json:"tx_hash"`
	PoolInfo domain.PoolInfo `json:"pool_info"`
}
