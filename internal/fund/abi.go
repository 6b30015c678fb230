package fund

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/fund.json
var embeddedABI []byte

// LoadABI parses the fund contract ABI from path, or the embedded copy when
// path is empty.
func LoadABI(path string) (abi.ABI, error) {
	data := embeddedABI
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("read abi: %w", err)
		}
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	return parsed, nil
}
