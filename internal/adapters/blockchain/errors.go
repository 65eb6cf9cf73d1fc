package blockchain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/registrar/internal/domain"
)

// classifyError turns a node rejection into a RevertError, decoding the
// Error(string) payload when the node returns one
func classifyError(method string, err error) error {
	if err == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), "revert") {
		return err
	}

	reason := err.Error()
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decErr := hexutil.Decode(data); decErr == nil {
				if unpacked, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					reason = unpacked
				}
			}
		}
	}
	return &domain.RevertError{Method: method, Reason: reason}
}
