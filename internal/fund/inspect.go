package fund

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/infra/chain"
)

// InspectLookback is the block range scanned by Inspect.
const InspectLookback = 1000

// CallResult is the outcome of one diagnostic contract call.
type CallResult struct {
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// InspectReport describes what the node knows about the fund contract.
type InspectReport struct {
	ChainID       string                `json:"chain_id"`
	LatestBlock   uint64                `json:"latest_block"`
	Address       string                `json:"address"`
	ContractFound bool                  `json:"contract_found"`
	CodeSize      int                   `json:"code_size"`
	Calls         map[string]CallResult `json:"calls,omitempty"`
	Window        domain.BlockWindow    `json:"window"`
	Deposits      int                   `json:"deposits"`
	Withdrawals   int                   `json:"withdrawals"`
	RawLogs       int                   `json:"raw_logs"`
	EventErrors   []string              `json:"event_errors,omitempty"`
}

// Inspect probes the node and the fund contract. Only a node that cannot be
// reached is an error; contract call failures are recorded in the report.
func Inspect(ctx context.Context, reader chain.Reader, cfg config.FundConfig) (InspectReport, error) {
	address := common.HexToAddress(cfg.Address)
	report := InspectReport{Address: address.Hex()}

	chainID, err := reader.ChainID(ctx)
	if err != nil {
		return report, &ConnectionError{Address: address, Err: err}
	}
	report.ChainID = chainID.String()

	height, err := reader.BlockNumber(ctx)
	if err != nil {
		return report, &ConnectionError{Address: address, Err: err}
	}
	report.LatestBlock = height
	report.Window = domain.LookbackWindow(height, InspectLookback)

	code, err := reader.CodeAt(ctx, address)
	if err != nil {
		return report, &ConnectionError{Address: address, Err: err}
	}
	report.CodeSize = len(code)
	report.ContractFound = len(code) > 0
	if !report.ContractFound {
		return report, nil
	}

	parsed, err := LoadABI(cfg.ABIPath)
	if err != nil {
		return report, err
	}
	conn := &Connection{Chain: reader, Address: address, ABI: parsed, ChainID: chainID, Code: len(code)}

	report.Calls = map[string]CallResult{
		"totalSupply": uintCall(ctx, conn, "totalSupply"),
		"totalShares": uintCall(ctx, conn, "totalShares"),
		"owner":       addressCall(ctx, conn, "owner"),
		"token":       addressCall(ctx, conn, "token"),
	}

	count := func(name string) int {
		q, err := conn.EventQuery(name, report.Window.FromHeight, nil)
		if err != nil {
			report.EventErrors = append(report.EventErrors, err.Error())
			return 0
		}
		logs, err := reader.FilterLogs(ctx, q)
		if err != nil {
			report.EventErrors = append(report.EventErrors, name+": "+err.Error())
			return 0
		}
		return len(logs)
	}
	report.Deposits = count(cfg.InflowEvent)
	report.Withdrawals = count(cfg.OutflowEvent)

	raw, err := reader.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(report.Window.FromHeight),
		Addresses: []common.Address{address},
	})
	if err != nil {
		report.EventErrors = append(report.EventErrors, "raw logs: "+err.Error())
	}
	report.RawLogs = len(raw)

	return report, nil
}

func uintCall(ctx context.Context, conn *Connection, method string) CallResult {
	v, err := conn.CallUint(ctx, method)
	if err != nil {
		return CallResult{Error: err.Error()}
	}
	return CallResult{Value: FormatEther(v)}
}

func addressCall(ctx context.Context, conn *Connection, method string) CallResult {
	v, err := conn.CallAddress(ctx, method)
	if err != nil {
		return CallResult{Error: err.Error()}
	}
	return CallResult{Value: v.Hex()}
}
