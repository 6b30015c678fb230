// Package fund reads the fund contract: its supply, per-account shares and
// the deposit/withdrawal history over a recent block window.
package fund

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/infra/chain"
)

// Connection is a bound handle to the fund contract on one network.
type Connection struct {
	Chain   chain.Reader
	Address common.Address
	ABI     abi.ABI
	ChainID *big.Int
	Code    int // size of the deployed code in bytes
}

// Connector hands out the shared connection, establishing it if needed.
type Connector interface {
	EnsureConnected(ctx context.Context) (*Connection, error)
}

// Dial reads the network identity, checks that the fund contract is deployed
// and binds its ABI. Node or contract failures are returned as *ConnectionError.
func Dial(ctx context.Context, reader chain.Reader, cfg config.FundConfig) (*Connection, error) {
	if !common.IsHexAddress(cfg.Address) {
		return nil, fmt.Errorf("invalid fund address %q", cfg.Address)
	}
	address := common.HexToAddress(cfg.Address)

	parsed, err := LoadABI(cfg.ABIPath)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{cfg.InflowEvent, cfg.OutflowEvent} {
		if _, ok := parsed.Events[name]; !ok {
			return nil, fmt.Errorf("event %q not in fund abi", name)
		}
	}

	chainID, err := reader.ChainID(ctx)
	if err != nil {
		return nil, &ConnectionError{Address: address, Err: err}
	}

	code, err := reader.CodeAt(ctx, address)
	if err != nil {
		return nil, &ConnectionError{Address: address, Err: err}
	}
	if len(code) == 0 {
		return nil, &ConnectionError{Address: address, Err: ErrContractNotFound}
	}

	return &Connection{
		Chain:   reader,
		Address: address,
		ABI:     parsed,
		ChainID: chainID,
		Code:    len(code),
	}, nil
}

// Accessor lazily dials the fund contract on first use and shares the
// connection afterwards. A failed dial is not cached.
type Accessor struct {
	reader chain.Reader
	cfg    config.FundConfig
	logger *slog.Logger

	mu   sync.Mutex
	conn *Connection
}

func NewAccessor(reader chain.Reader, cfg config.FundConfig, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{reader: reader, cfg: cfg, logger: logger}
}

func (a *Accessor) EnsureConnected(ctx context.Context) (*Connection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return a.conn, nil
	}

	conn, err := Dial(ctx, a.reader, a.cfg)
	if err != nil {
		a.logger.Error("Failed to connect to fund contract",
			"address", a.cfg.Address,
			"category", Classify(err),
			"error", err,
		)
		return nil, err
	}

	a.logger.Info("Connected to fund contract",
		"chain_id", conn.ChainID,
		"address", conn.Address.Hex(),
		"code_size", conn.Code,
	)
	a.conn = conn
	return conn, nil
}

type staticConnector struct {
	conn *Connection
}

// Static returns a Connector that always hands out conn.
func Static(conn *Connection) Connector {
	return staticConnector{conn: conn}
}

func (s staticConnector) EnsureConnected(context.Context) (*Connection, error) {
	return s.conn, nil
}

// Call invokes a read-only contract method and returns its decoded outputs.
// A missing accessor surfaces as ErrUnsupportedCall.
func (c *Connection) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	m, ok := c.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%s: %w", method, ErrUnsupportedCall)
	}

	input, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.Chain.CallContract(ctx, ethereum.CallMsg{To: &c.Address, Data: input})
	if err != nil {
		if isUnsupported(err) {
			return nil, fmt.Errorf("%s: %w: %w", method, ErrUnsupportedCall, err)
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 && len(m.Outputs) > 0 {
		return nil, fmt.Errorf("%s: empty return data: %w", method, ErrUnsupportedCall)
	}

	values, err := m.Outputs.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// CallUint invokes a method returning a single uint256.
func (c *Connection) CallUint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	values, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: no return value", method)
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type %T", method, values[0])
	}
	return v, nil
}

// CallAddress invokes a method returning a single address.
func (c *Connection) CallAddress(ctx context.Context, method string, args ...any) (common.Address, error) {
	values, err := c.Call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(values) == 0 {
		return common.Address{}, fmt.Errorf("%s: no return value", method)
	}
	v, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected return type %T", method, values[0])
	}
	return v, nil
}

// EventQuery builds the log filter for the named event over window.
func (c *Connection) EventQuery(name string, fromHeight uint64, toHeight *uint64) (ethereum.FilterQuery, error) {
	ev, ok := c.ABI.Events[name]
	if !ok {
		return ethereum.FilterQuery{}, fmt.Errorf("event %q not in fund abi", name)
	}
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromHeight),
		Addresses: []common.Address{c.Address},
		Topics:    [][]common.Hash{{ev.ID}},
	}
	if toHeight != nil {
		q.ToBlock = new(big.Int).SetUint64(*toHeight)
	}
	return q, nil
}

// DecodeTransfer extracts the (address, uint256) pair carried by a fund
// event log. Arguments are read by position, whether indexed or not.
func (c *Connection) DecodeTransfer(name string, lg types.Log) (common.Address, *big.Int, error) {
	ev, ok := c.ABI.Events[name]
	if !ok {
		return common.Address{}, nil, fmt.Errorf("event %q not in fund abi", name)
	}
	if len(ev.Inputs) < 2 {
		return common.Address{}, nil, fmt.Errorf("event %q: expected 2 arguments, got %d", name, len(ev.Inputs))
	}
	if len(lg.Topics) == 0 || lg.Topics[0] != ev.ID {
		return common.Address{}, nil, errors.New("log does not match event signature")
	}

	nonIndexed, err := ev.Inputs.NonIndexed().Unpack(lg.Data)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("unpack %s data: %w", name, err)
	}

	values := make([]any, 0, len(ev.Inputs))
	topics := lg.Topics[1:]
	for _, in := range ev.Inputs {
		if in.Indexed {
			if len(topics) == 0 {
				return common.Address{}, nil, fmt.Errorf("%s: missing topic for %q", name, in.Name)
			}
			values = append(values, decodeTopic(in.Type, topics[0]))
			topics = topics[1:]
			continue
		}
		values = append(values, nonIndexed[0])
		nonIndexed = nonIndexed[1:]
	}

	account, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("%s: first argument is %T, want address", name, values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("%s: second argument is %T, want uint256", name, values[1])
	}
	return account, amount, nil
}

func decodeTopic(t abi.Type, topic common.Hash) any {
	switch t.T {
	case abi.AddressTy:
		return common.BytesToAddress(topic.Bytes())
	case abi.UintTy:
		return new(big.Int).SetBytes(topic.Bytes())
	default:
		return topic
	}
}
