package reader

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RevertData reports whether err is a contract revert and returns its data
// when the node supplied it. It looks through errors joined by EthReader.
// Every JSON-RPC error carries ErrorData, so an error without data only
// counts as a revert by its message.
func RevertData(err error) ([]byte, bool) {
	if err == nil {
		return nil, false
	}
	var de rpc.DataError
	if errors.As(err, &de) {
		switch d := de.ErrorData().(type) {
		case string:
			if b, decErr := hexutil.Decode(d); decErr == nil {
				return b, true
			}
		case []byte:
			return d, true
		}
	}
	return nil, strings.Contains(err.Error(), "execution reverted")
}
