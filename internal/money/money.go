// Package money converts between decimal amounts and int64 minor units.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrAmountTooLarge  = errors.New("amount is too large")
)

// MaxAmount is the largest single amount accepted, in minor units.
const MaxAmount int64 = 100_000_000_000_00

var maxMinor = decimal.NewFromInt(MaxAmount)

func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := value / 100
	frac := value % 100
	formatted := fmt.Sprintf("%d.%02d", whole, frac)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FromDecimal converts a decimal amount to minor units. At most two fractional
// digits are accepted.
func FromDecimal(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	if shifted.Abs().GreaterThan(maxMinor) {
		return 0, ErrAmountTooLarge
	}
	return shifted.IntPart(), nil
}
