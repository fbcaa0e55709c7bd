package reader

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// EthereumNode is a single JSON-RPC endpoint. All reads are eth_call or
// eth_getCode; nothing here ever sends a transaction.
type EthereumNode interface {
	NodeName() string
	NodeURL() string
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}
