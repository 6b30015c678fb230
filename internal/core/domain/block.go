package domain

import "fmt"

// BlockWindow is the height range scanned for fund events.
// A nil ToHeight means "latest".
type BlockWindow struct {
	FromHeight uint64  `json:"from_height"`
	ToHeight   *uint64 `json:"to_height,omitempty"`
}

// LookbackWindow returns the window covering the last lookback blocks up to
// the chain head, clamped at genesis.
func LookbackWindow(current, lookback uint64) BlockWindow {
	var from uint64
	if current > lookback {
		from = current - lookback
	}
	return BlockWindow{FromHeight: from}
}

func (w BlockWindow) String() string {
	if w.ToHeight == nil {
		return fmt.Sprintf("[%d, latest]", w.FromHeight)
	}
	return fmt.Sprintf("[%d, %d]", w.FromHeight, *w.ToHeight)
}
