package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// LedgerKind tells whether value entered or left the fund.
type LedgerKind string

const (
	LedgerInflow  LedgerKind = "deposit"
	LedgerOutflow LedgerKind = "withdrawal"
)

// LedgerEvent is one fund deposit or withdrawal.
type LedgerEvent struct {
	Kind       LedgerKind      `json:"type"`
	Account    common.Address  `json:"user"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"timestamp"`
	Reference  string          `json:"transactionHash"`
}

// ShortAddress renders an address as 0x1234...abcd.
func ShortAddress(addr common.Address) string {
	s := addr.Hex()
	return s[:6] + "..." + s[len(s)-4:]
}

// CountByKind returns the number of inflows and outflows in events.
func CountByKind(events []LedgerEvent) (inflows, outflows int) {
	for _, ev := range events {
		switch ev.Kind {
		case LedgerInflow:
			inflows++
		case LedgerOutflow:
			outflows++
		}
	}
	return inflows, outflows
}
