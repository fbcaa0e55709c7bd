package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

var BaseMainnet Network = NewBaseMainnet()

func NewBaseMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "base",
		AlternativeNames: []string{},
		ChainID:          8453,
		NodeVariableName: "BASE_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"public-base": "https://mainnet.base.org",
		},
		ResolutionMode: DirectResolution,
		L2Resolver:     common.HexToAddress("0xC6d566A56A1aFf6508b41f6c90ff131615583BCD"),
	})
}
