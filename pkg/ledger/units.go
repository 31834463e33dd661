package ledger

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount does not convert to a positive number of base units.
var ErrInvalidAmount = errors.New("amount must be a positive number of base units")

var maxUnits = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToBaseUnits converts a display amount to integer base units, truncating any
// fraction below the smallest unit. Results of zero or less are rejected.
func ToBaseUnits(amount float64, decimals int32) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	units := decimal.NewFromFloat(amount).Shift(decimals).Truncate(0)
	if !units.IsPositive() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if units.GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%w: %v overflows", ErrInvalidAmount, amount)
	}
	return units.BigInt().Uint64(), nil
}

// FromBaseUnits converts integer base units to a display amount.
func FromBaseUnits(units uint64, decimals int32) float64 {
	f, _ := decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0).Shift(-decimals).Float64()
	return f
}

// parseBaseUnits parses a decimal string of base units as returned by the node API.
func parseBaseUnits(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid base unit amount %q: %w", s, err)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("invalid base unit amount %q", s)
	}
	if d.GreaterThan(maxUnits) {
		return 0, fmt.Errorf("base unit amount %q overflows", s)
	}
	return d.BigInt().Uint64(), nil
}
