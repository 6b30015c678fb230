package fund

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/fundwatch/internal/core/config"
)

const testFundAddress = "0xA15BB66138824a1c7167f5E85b957d04Dd34E468"

// fakeChain implements chain.Reader in memory.
type fakeChain struct {
	mu sync.Mutex

	chainID    *big.Int
	chainIDErr error
	code       []byte
	height     uint64
	heightErr  error
	logs       map[common.Hash][]types.Log // by event id
	logErr     error
	blockTimes map[uint64]uint64
	timeErr    error
	callFn     func(msg ethereum.CallMsg) ([]byte, error)

	chainIDCalls   int
	contractCalls  int
	queries        []ethereum.FilterQuery
	timestampCalls map[uint64]int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:        big.NewInt(31337),
		code:           []byte{0x60, 0x80},
		logs:           make(map[common.Hash][]types.Log),
		blockTimes:     make(map[uint64]uint64),
		timestampCalls: make(map[uint64]int),
	}
}

func (f *fakeChain) ChainID(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chainIDCalls++
	return f.chainID, f.chainIDErr
}

func (f *fakeChain) BlockNumber(ctx context.Context) (uint64, error) {
	return f.height, f.heightErr
}

func (f *fakeChain) BlockTimestamp(ctx context.Context, height uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timestampCalls[height]++
	if f.timeErr != nil {
		return 0, f.timeErr
	}
	ts, ok := f.blockTimes[height]
	if !ok {
		return 0, errors.New("unknown block")
	}
	return ts, nil
}

func (f *fakeChain) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return f.code, nil
}

func (f *fakeChain) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.logErr != nil {
		return nil, f.logErr
	}
	if len(q.Topics) == 0 {
		var all []types.Log
		for _, logs := range f.logs {
			all = append(all, logs...)
		}
		return all, nil
	}
	return f.logs[q.Topics[0][0]], nil
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.mu.Lock()
	f.contractCalls++
	fn := f.callFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("execution reverted")
	}
	return fn(msg)
}

func testABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := LoadABI("")
	require.NoError(t, err)
	return parsed
}

func testConfig() config.FundConfig {
	cfg := config.Default().Fund
	cfg.Address = testFundAddress
	cfg.SupplyRetryDelay = 0
	return cfg
}

func testConnection(t *testing.T, fc *fakeChain) *Connection {
	t.Helper()
	conn, err := Dial(context.Background(), fc, testConfig())
	require.NoError(t, err)
	return conn
}

// eventLog builds a log for a fund event with the account indexed.
func eventLog(t *testing.T, name string, account common.Address, amount *big.Int, height uint64, tx byte) types.Log {
	t.Helper()
	ev := testABI(t).Events[name]
	data, err := ev.Inputs.NonIndexed().Pack(amount)
	require.NoError(t, err)
	return types.Log{
		Address:     common.HexToAddress(testFundAddress),
		Topics:      []common.Hash{ev.ID, common.BytesToHash(account.Bytes())},
		Data:        data,
		BlockNumber: height,
		TxHash:      common.BytesToHash([]byte{tx}),
	}
}

// respond answers eth_call for method with the packed outputs.
func respond(t *testing.T, method string, values ...any) func(ethereum.CallMsg) ([]byte, error) {
	t.Helper()
	m := testABI(t).Methods[method]
	out, err := m.Outputs.Pack(values...)
	require.NoError(t, err)
	return func(msg ethereum.CallMsg) ([]byte, error) {
		if !bytes.HasPrefix(msg.Data, m.ID) {
			return nil, errors.New("execution reverted")
		}
		return out, nil
	}
}

func ether(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), big.NewInt(1e18))
}
