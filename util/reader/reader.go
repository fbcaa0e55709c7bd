package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// EthReader spreads every read over all of its nodes and returns the first
// successful answer. When every node fails the individual errors are joined,
// so revert data carried by an rpc.DataError is still reachable with
// errors.As.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url)
	}
	return &EthReader{nodes: ns}
}

func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{nodes: ns}
}

// NodeNames returns the configured node names in a stable order.
func (er *EthReader) NodeNames() []string {
	names := make([]string, 0, len(er.nodes))
	for name := range er.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every node's connection.
func (er *EthReader) Close() {
	for _, n := range er.nodes {
		n.Close()
	}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type bytesResponse struct {
	Data  []byte
	Error error
}

// readAll runs read on every node and returns the first success.
func (er *EthReader) readAll(read func(n EthereumNode) ([]byte, error)) ([]byte, error) {
	if len(er.nodes) == 0 {
		return nil, fmt.Errorf("no nodes configured")
	}
	resCh := make(chan bytesResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			data, err := read(n)
			resCh <- bytesResponse{
				Data:  data,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Data, nil
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return er.readAll(func(n EthereumNode) ([]byte, error) {
		return n.CodeAt(ctx, account, blockNumber)
	})
}

func (er *EthReader) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return er.readAll(func(n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, call, blockNumber)
	})
}
