package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/vietddude/fundwatch/internal/infra/chain"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
)

var _ chain.Reader = (*Client)(nil)

// Client implements chain.Reader with eth_* JSON-RPC calls.
type Client struct {
	caller provider.Caller
}

func NewClient(caller provider.Caller) *Client {
	return &Client{caller: caller}
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, fmt.Errorf("eth_chainId failed: %w", err)
	}
	return (*big.Int)(&id), nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var height hexutil.Uint64
	if err := c.call(ctx, &height, "eth_blockNumber"); err != nil {
		return 0, fmt.Errorf("eth_blockNumber failed: %w", err)
	}
	return uint64(height), nil
}

type blockHeader struct {
	Number    hexutil.Uint64 `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

func (c *Client) BlockTimestamp(ctx context.Context, height uint64) (uint64, error) {
	var header *blockHeader
	if err := c.call(ctx, &header, "eth_getBlockByNumber", hexutil.EncodeUint64(height), false); err != nil {
		return 0, fmt.Errorf("eth_getBlockByNumber failed: %w", err)
	}
	if header == nil {
		return 0, fmt.Errorf("block %d not found", height)
	}
	return uint64(header.Timestamp), nil
}

func (c *Client) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	var code hexutil.Bytes
	if err := c.call(ctx, &code, "eth_getCode", account, "latest"); err != nil {
		return nil, fmt.Errorf("eth_getCode failed: %w", err)
	}
	return code, nil
}

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	arg, err := toFilterArg(q)
	if err != nil {
		return nil, err
	}
	var logs []types.Log
	if err := c.call(ctx, &logs, "eth_getLogs", arg); err != nil {
		return nil, fmt.Errorf("eth_getLogs failed: %w", err)
	}
	return logs, nil
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, &out, "eth_call", toCallArg(msg), "latest"); err != nil {
		return nil, fmt.Errorf("eth_call failed: %w", err)
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, result any, method string, params ...any) error {
	raw, err := c.caller.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("%s: empty result", method)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

func toFilterArg(q ethereum.FilterQuery) (map[string]any, error) {
	arg := map[string]any{
		"address": q.Addresses,
		"topics":  q.Topics,
	}
	if q.BlockHash != nil {
		arg["blockHash"] = *q.BlockHash
		if q.FromBlock != nil || q.ToBlock != nil {
			return nil, fmt.Errorf("cannot specify both BlockHash and FromBlock/ToBlock")
		}
		return arg, nil
	}
	if q.FromBlock == nil {
		arg["fromBlock"] = "0x0"
	} else {
		arg["fromBlock"] = toBlockNumArg(q.FromBlock)
	}
	arg["toBlock"] = toBlockNumArg(q.ToBlock)
	return arg, nil
}

// toBlockNumArg renders a height; nil means the latest block.
func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}

func toCallArg(msg ethereum.CallMsg) map[string]any {
	arg := map[string]any{
		"to": msg.To,
	}
	if msg.From != (common.Address{}) {
		arg["from"] = msg.From
	}
	if len(msg.Data) > 0 {
		arg["input"] = hexutil.Bytes(msg.Data)
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	return arg
}
