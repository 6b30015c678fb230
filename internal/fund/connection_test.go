package fund

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial(t *testing.T) {
	fc := newFakeChain()

	conn, err := Dial(context.Background(), fc, testConfig())
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testFundAddress), conn.Address)
	assert.Equal(t, int64(31337), conn.ChainID.Int64())
	assert.Equal(t, 2, conn.Code)
}

func TestDial_Failures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		fc := newFakeChain()
		fc.chainIDErr = errors.New("connection refused")
		_, err := Dial(context.Background(), fc, testConfig())
		var connErr *ConnectionError
		assert.ErrorAs(t, err, &connErr)
	})

	t.Run("no contract", func(t *testing.T) {
		fc := newFakeChain()
		fc.code = nil
		_, err := Dial(context.Background(), fc, testConfig())
		assert.ErrorIs(t, err, ErrContractNotFound)
		assert.Equal(t, CategoryConnectivity, Classify(err))
	})

	t.Run("bad address", func(t *testing.T) {
		cfg := testConfig()
		cfg.Address = "not-an-address"
		_, err := Dial(context.Background(), newFakeChain(), cfg)
		assert.Error(t, err)
	})

	t.Run("unknown event", func(t *testing.T) {
		cfg := testConfig()
		cfg.InflowEvent = "Deposited"
		_, err := Dial(context.Background(), newFakeChain(), cfg)
		assert.ErrorContains(t, err, "Deposited")
	})
}

func TestAccessor_ConnectsOnce(t *testing.T) {
	fc := newFakeChain()
	a := NewAccessor(fc, testConfig(), nil)

	var wg sync.WaitGroup
	conns := make([]*Connection, 8)
	for i := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := a.EnsureConnected(context.Background())
			assert.NoError(t, err)
			conns[i] = conn
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fc.chainIDCalls)
	for _, conn := range conns {
		assert.Same(t, conns[0], conn)
	}
}

func TestAccessor_RetriesAfterFailure(t *testing.T) {
	fc := newFakeChain()
	fc.chainIDErr = errors.New("connection refused")
	a := NewAccessor(fc, testConfig(), nil)

	_, err := a.EnsureConnected(context.Background())
	require.Error(t, err)

	fc.chainIDErr = nil
	conn, err := a.EnsureConnected(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, 2, fc.chainIDCalls)
}

func TestConnection_CallUnsupported(t *testing.T) {
	conn := testConnection(t, newFakeChain())

	_, err := conn.CallUint(context.Background(), "totalSupply")
	assert.ErrorIs(t, err, ErrUnsupportedCall)

	_, err = conn.CallUint(context.Background(), "decimals")
	assert.ErrorIs(t, err, ErrUnsupportedCall)
}

func TestConnection_CallAddress(t *testing.T) {
	fc := newFakeChain()
	fc.callFn = respond(t, "owner", alice)
	conn := testConnection(t, fc)

	owner, err := conn.CallAddress(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
}

func TestDecodeTransfer_NonIndexedArguments(t *testing.T) {
	const nonIndexedABI = `[
		{"type":"event","name":"sharesMinted","anonymous":false,"inputs":[
			{"name":"user","type":"address","indexed":false},
			{"name":"amount","type":"uint256","indexed":false}]},
		{"type":"event","name":"withdrawnShares","anonymous":false,"inputs":[
			{"name":"user","type":"address","indexed":false},
			{"name":"amount","type":"uint256","indexed":false}]}
	]`
	path := filepath.Join(t.TempDir(), "fund.json")
	require.NoError(t, os.WriteFile(path, []byte(nonIndexedABI), 0o600))

	cfg := testConfig()
	cfg.ABIPath = path
	conn, err := Dial(context.Background(), newFakeChain(), cfg)
	require.NoError(t, err)

	ev := conn.ABI.Events["withdrawnShares"]
	data, err := ev.Inputs.Pack(bob, big.NewInt(7))
	require.NoError(t, err)

	account, amount, err := conn.DecodeTransfer("withdrawnShares", types.Log{
		Topics: []common.Hash{ev.ID},
		Data:   data,
	})
	require.NoError(t, err)
	assert.Equal(t, bob, account)
	assert.Equal(t, int64(7), amount.Int64())
}

func TestDecodeTransfer_IndexedAccount(t *testing.T) {
	conn := testConnection(t, newFakeChain())

	account, amount, err := conn.DecodeTransfer("sharesMinted", eventLog(t, "sharesMinted", alice, ether(3), 1, 0x01))
	require.NoError(t, err)
	assert.Equal(t, alice, account)
	assert.Zero(t, ether(3).Cmp(amount))
}

func TestLoadABI_MissingFile(t *testing.T) {
	_, err := LoadABI(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
