package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestLookbackWindow(t *testing.T) {
	tests := []struct {
		current  uint64
		lookback uint64
		want     uint64
	}{
		{500, 10000, 0},
		{10000, 10000, 0},
		{10001, 10000, 1},
		{250000, 10000, 240000},
		{0, 10000, 0},
	}

	for _, tt := range tests {
		w := LookbackWindow(tt.current, tt.lookback)
		assert.Equal(t, tt.want, w.FromHeight, "current=%d", tt.current)
		assert.Nil(t, w.ToHeight)
	}
}

func TestBlockWindow_String(t *testing.T) {
	to := uint64(20)
	assert.Equal(t, "[10, latest]", BlockWindow{FromHeight: 10}.String())
	assert.Equal(t, "[10, 20]", BlockWindow{FromHeight: 10, ToHeight: &to}.String())
}

func TestShortAddress(t *testing.T) {
	addr := common.HexToAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720")
	assert.Equal(t, "0xa0Ee...9720", ShortAddress(addr))
}

func TestCountByKind(t *testing.T) {
	events := []LedgerEvent{
		{Kind: LedgerInflow},
		{Kind: LedgerOutflow},
		{Kind: LedgerInflow},
	}
	in, out := CountByKind(events)
	assert.Equal(t, 2, in)
	assert.Equal(t, 1, out)
}

func TestClassifySentiment(t *testing.T) {
	assert.Equal(t, SentimentPositive, ClassifySentiment(0.21))
	assert.Equal(t, SentimentNeutral, ClassifySentiment(0.2))
	assert.Equal(t, SentimentNeutral, ClassifySentiment(-0.2))
	assert.Equal(t, SentimentNegative, ClassifySentiment(-0.5))
}

func TestMessage_CreatedTime(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-03-01T10:00:00.123456", time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC), true},
		{"2024-03-01 23:59:59", time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := Message{CreatedAt: tt.raw}.CreatedTime()
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.raw, got)
	}
}
