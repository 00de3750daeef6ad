package errors

import (
	stderrors "errors"

	"github.com/robynasuro/octra-client/jsonx"
)

// ClientErrorCode represents standardized error codes for wallet client operations
type ClientErrorCode string

const (
	// General errors
	ErrCodeInternal ClientErrorCode = "internal_error"

	// Validation errors, detected locally before any network call
	ErrCodeInvalidAddress      ClientErrorCode = "invalid_address"
	ErrCodeInvalidAmount       ClientErrorCode = "invalid_amount"
	ErrCodeInsufficientBalance ClientErrorCode = "insufficient_balance"
	ErrCodeMissingKeypair      ClientErrorCode = "missing_keypair"

	// Transport errors, isolated to the request that suffered them
	ErrCodeTimeout          ClientErrorCode = "timeout"
	ErrCodeConnectionFailed ClientErrorCode = "connection_failed"

	// Protocol errors surfaced by the ledger
	ErrCodeTxRejected ClientErrorCode = "tx_rejected"
	ErrCodeRPCStatus  ClientErrorCode = "rpc_status"
	ErrCodeNotFound   ClientErrorCode = "not_found"
)

// ClientError represents a standardized client error
type ClientError struct {
	Code    ClientErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *ClientError) Error() string {
	err, _ := jsonx.Marshal(ClientError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// NewError creates a new ClientError and returns it as error interface
func NewError(code ClientErrorCode, message string) error {
	return &ClientError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the error code from err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ClientErrorCode {
	var ce *ClientError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err is an absence-of-history condition. Callers
// treat this as an empty result, never as a failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsTimeout reports whether err is a per-request deadline expiry.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeTimeout
}
