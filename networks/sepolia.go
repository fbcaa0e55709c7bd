package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

var Sepolia Network = NewSepolia()

func NewSepolia() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "sepolia",
		AlternativeNames: []string{},
		ChainID:          11155111,
		NodeVariableName: "ETHEREUM_SEPOLIA_NODE",
		DefaultNodes: map[string]string{
			"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
		},
		ResolutionMode:    UniversalResolution,
		UniversalResolver: common.HexToAddress("0xeEeEEEeE14D718C2B47D9923Deab1335E144EeEe"),
	})
}
