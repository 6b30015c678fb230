package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Reader defines the read-only chain surface the fund readers depend on.
// This is the boundary between fund logic and the node transport.
type Reader interface {
	// ChainID returns the network identifier reported by the node
	ChainID(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the latest block height
	BlockNumber(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the timestamp (unix seconds) of the block at height
	BlockTimestamp(ctx context.Context, height uint64) (uint64, error)

	// CodeAt returns the contract code at account in the latest block
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)

	// FilterLogs executes a log filter query
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	// CallContract executes a read-only message call against the latest block
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}
