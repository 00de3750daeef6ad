package domain

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/robynasuro/octra-client/errors"
)

// MicroPerToken is the ledger's fixed scaling: one token is 10^6 micro-units.
const MicroPerToken = 1_000_000

// feeTierBoundaryMicro: transfers below 1000 whole tokens pay tier "1",
// everything else tier "3".
var feeTierBoundaryMicro = uint256.NewInt(1000 * MicroPerToken)

// TokensToMicro parses a decimal token amount ("10.5") into micro-units,
// flooring anything beyond six fractional digits.
func TokensToMicro(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, fmt.Sprintf("amount %q must be a positive decimal", s))
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 6 {
		frac = frac[:6] // floor
	}
	frac += strings.Repeat("0", 6-len(frac))

	w, err := uint256.FromDecimal(whole)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, fmt.Sprintf("amount %q is not a decimal number", s))
	}
	f, err := uint256.FromDecimal(frac)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, fmt.Sprintf("amount %q is not a decimal number", s))
	}

	micro := new(uint256.Int).Mul(w, uint256.NewInt(MicroPerToken))
	micro.Add(micro, f)
	if micro.IsZero() {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, "amount must be > 0")
	}
	return micro, nil
}

// MicroToTokens converts micro-units into whole tokens for display and
// history rows.
func MicroToTokens(micro *uint256.Int) float64 {
	if micro == nil {
		return 0
	}
	return float64(micro.Uint64()) / MicroPerToken
}

// ParseRawMicro accepts the two raw representations the ledger emits for the
// same value: a decimal token string ("10.5") or an integer micro-unit string
// ("10500000"). Both normalize to the same micro-unit amount.
func ParseRawMicro(raw string) (*uint256.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uint256.NewInt(0), nil
	}
	if strings.ContainsAny(raw, ".eE") {
		return TokensToMicro(raw)
	}
	micro, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, fmt.Sprintf("unparseable raw amount %q", raw))
	}
	return micro, nil
}

// FeeTierForAmount returns the static two-bucket fee code for a micro-unit
// amount.
func FeeTierForAmount(micro *uint256.Int) string {
	if micro != nil && micro.Lt(feeTierBoundaryMicro) {
		return "1"
	}
	return "3"
}
