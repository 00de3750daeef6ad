package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/errors"
	"github.com/robynasuro/octra-client/jsonx"
	"github.com/robynasuro/octra-client/logx"
)

type Config struct {
	BaseURL string
}

// OctraClient talks to the ledger node through the transparent HTTP relay.
// The relay forwards method, endpoint and payload verbatim, so paths here are
// the node's own endpoints. Per-request deadlines come from the caller's
// context; the http.Client itself carries no timeout.
type OctraClient struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *OctraClient {
	return &OctraClient{
		cfg:  cfg,
		http: &http.Client{},
	}
}

// GetConfirmedState fetches the finalized balance and nonce of addr. A
// missing nonce decodes to zero; callers depend on a numeric floor.
func (c *OctraClient) GetConfirmedState(ctx context.Context, addr string) (domain.ConfirmedState, error) {
	body, err := c.get(ctx, "/balance/"+url.PathEscape(addr))
	if err != nil {
		return domain.ConfirmedState{}, err
	}
	var wire balanceResponse
	if err := jsonx.Unmarshal(body, &wire); err != nil {
		return domain.ConfirmedState{}, errors.NewError(errors.ErrCodeRPCStatus, fmt.Sprintf("malformed balance response: %v", err))
	}
	return wire.toDomain()
}

// GetPendingPool fetches the node's full unconfirmed pool.
func (c *OctraClient) GetPendingPool(ctx context.Context) ([]domain.PendingPoolEntry, error) {
	body, err := c.get(ctx, "/staging")
	if err != nil {
		return nil, err
	}
	var wire stagingResponse
	if err := jsonx.Unmarshal(body, &wire); err != nil {
		return nil, errors.NewError(errors.ErrCodeRPCStatus, fmt.Sprintf("malformed staging response: %v", err))
	}
	return wire.toDomain(), nil
}

// GetAddressHistory lists recent confirmed transaction references for addr.
// A node that has never seen addr answers 404, surfaced as ErrCodeNotFound.
func (c *OctraClient) GetAddressHistory(ctx context.Context, addr string, limit int) ([]domain.TxRef, error) {
	body, err := c.get(ctx, fmt.Sprintf("/address/%s?limit=%d", url.PathEscape(addr), limit))
	if err != nil {
		return nil, err
	}
	var wire historyResponse
	if err := jsonx.Unmarshal(body, &wire); err != nil {
		return nil, errors.NewError(errors.ErrCodeRPCStatus, fmt.Sprintf("malformed history response: %v", err))
	}
	return wire.toDomain(), nil
}

// GetTxDetail fetches the parsed form of one confirmed transaction.
func (c *OctraClient) GetTxDetail(ctx context.Context, hash string) (domain.TxRecord, error) {
	body, err := c.get(ctx, "/tx/"+url.PathEscape(hash))
	if err != nil {
		return domain.TxRecord{}, err
	}
	var wire txDetailResponse
	if err := jsonx.Unmarshal(body, &wire); err != nil {
		return domain.TxRecord{}, errors.NewError(errors.ErrCodeRPCStatus, fmt.Sprintf("malformed tx response: %v", err))
	}
	return wire.toDomain(hash)
}

// SubmitTx posts a signed envelope and normalizes the node's two response
// shapes (structured acceptance vs legacy "ok <hash>" string) into one
// receipt. Any other shape is a rejection carrying the upstream text
// verbatim.
func (c *OctraClient) SubmitTx(ctx context.Context, tx domain.SignedTx) (domain.SubmitReceipt, error) {
	payload, err := jsonx.Marshal(&tx)
	if err != nil {
		return domain.SubmitReceipt{}, err
	}
	body, err := c.post(ctx, "/send-tx", payload)
	if err != nil {
		return domain.SubmitReceipt{}, err
	}

	var wire submitResponse
	if err := jsonx.Unmarshal(body, &wire); err == nil && wire.Status == "accepted" {
		return domain.SubmitReceipt{Hash: wire.TxHash, PoolInfo: wire.PoolInfo}, nil
	}

	// Legacy nodes answer a bare string, JSON-quoted or raw: "ok <hash>".
	legacy := strings.TrimSpace(string(body))
	var quoted string
	if err := jsonx.Unmarshal(body, &quoted); err == nil {
		legacy = quoted
	}
	if strings.HasPrefix(legacy, "ok") {
		if fields := strings.Fields(legacy); len(fields) > 1 {
			return domain.SubmitReceipt{Hash: fields[len(fields)-1]}, nil
		}
	}

	return domain.SubmitReceipt{}, errors.NewError(errors.ErrCodeTxRejected, strings.TrimSpace(string(body)))
}

func (c *OctraClient) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *OctraClient) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *OctraClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewError(errors.ErrCodeTimeout, fmt.Sprintf("%s %s exceeded its deadline", method, path))
		}
		logx.Debug("RPC", method, " ", path, " failed: ", err)
		return nil, errors.NewError(errors.ErrCodeConnectionFailed, err.Error())
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeConnectionFailed, err.Error())
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, errors.NewError(errors.ErrCodeNotFound, strings.TrimSpace(string(body)))
	case res.StatusCode < 200 || res.StatusCode > 299:
		// Surface the upstream status and body unchanged.
		return nil, errors.NewError(errors.ErrCodeRPCStatus,
			fmt.Sprintf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}
	return body, nil
}
