package fund

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the fixed-point scale of fund share amounts.
const Decimals = 18

// ToDecimal scales a raw on-chain amount by 10^-18.
func ToDecimal(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -Decimals)
}

// FormatEther renders a raw amount the way wallets do: trailing zeros
// trimmed, but always with a fractional part ("1.0", "0.0", "2.5").
func FormatEther(raw *big.Int) string {
	s := ToDecimal(raw).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
