package fund

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
)

var (
	// ErrUnsupportedCall means the deployed contract does not implement a read accessor.
	ErrUnsupportedCall = errors.New("call not supported by contract")
	// ErrOverloaded means the node reported it has no healthy backend.
	ErrOverloaded = errors.New("node overloaded")
	// ErrContractNotFound means there is no code at the fund address.
	ErrContractNotFound = errors.New("no contract code at address")
)

// ConnectionError reports that the node or the fund contract is unreachable.
type ConnectionError struct {
	Address common.Address
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to fund %s: %v", e.Address.Hex(), e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Category groups errors for logs and metrics.
type Category string

const (
	CategoryNone         Category = "none"
	CategoryConnectivity Category = "connectivity"
	CategoryUnsupported  Category = "unsupported"
	CategoryOverloaded   Category = "overloaded"
	CategoryTransient    Category = "transient"
)

// Classify maps err onto the error taxonomy.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}

	var connErr *ConnectionError
	switch {
	case errors.As(err, &connErr):
		return CategoryConnectivity
	case errors.Is(err, ErrOverloaded), isOverloaded(err, config.DefaultOverloadMarker):
		return CategoryOverloaded
	case errors.Is(err, ErrUnsupportedCall), isUnsupported(err):
		return CategoryUnsupported
	default:
		return CategoryTransient
	}
}

func isOverloaded(err error, marker string) bool {
	return err != nil && marker != "" && strings.Contains(err.Error(), marker)
}

// isUnsupported reports whether the node rejected a call because the
// contract has no such accessor.
func isUnsupported(err error) bool {
	var rpcErr *provider.RPCError
	if errors.As(err, &rpcErr) {
		// -32601: method not found, 3: execution reverted
		if rpcErr.Code == -32601 || rpcErr.Code == 3 {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
