package fund

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/vietddude/fundwatch/internal/core/domain"
)

// FallbackEvents is the placeholder history shown while the node is
// overloaded: two deposits and one withdrawal relative to now, newest first.
func FallbackEvents(now time.Time) []domain.LedgerEvent {
	primary := common.HexToAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720")
	secondary := common.HexToAddress("0xb0Ee7A142d267C1f36714E4a8F75612F20a79721")

	return []domain.LedgerEvent{
		{
			Kind:       domain.LedgerInflow,
			Account:    primary,
			Amount:     decimal.RequireFromString("5.01"),
			OccurredAt: now,
			Reference:  "0x123456789abcdef",
		},
		{
			Kind:       domain.LedgerOutflow,
			Account:    primary,
			Amount:     decimal.RequireFromString("1.5"),
			OccurredAt: now.Add(-12 * time.Hour),
			Reference:  "0x323456789abcdef",
		},
		{
			Kind:       domain.LedgerInflow,
			Account:    secondary,
			Amount:     decimal.RequireFromString("3.5"),
			OccurredAt: now.Add(-24 * time.Hour),
			Reference:  "0x223456789abcdef",
		},
	}
}
