package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

var BaseSepolia Network = NewBaseSepolia()

func NewBaseSepolia() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "base-sepolia",
		AlternativeNames: []string{},
		ChainID:          84532,
		NodeVariableName: "BASE_SEPOLIA_NODE",
		DefaultNodes: map[string]string{
			"public-base-sepolia": "https://sepolia.base.org",
		},
		ResolutionMode: DirectResolution,
		L2Resolver:     common.HexToAddress("0x6533C94869D28fAA8dF77cc63f9e2b2D6Cf77eBA"),
	})
}
