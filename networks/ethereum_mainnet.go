package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

var EthereumMainnet Network = NewEthereumMainnet()

func NewEthereumMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "mainnet",
		AlternativeNames: []string{"ethereum"},
		ChainID:          1,
		NodeVariableName: "ETHEREUM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
			"mainnet-llamarpc":   "https://eth.llamarpc.com",
		},
		ResolutionMode:    UniversalResolution,
		UniversalResolver: common.HexToAddress("0xeEeEEEeE14D718C2B47D9923Deab1335E144EeEe"),
		TextResolver:      common.HexToAddress("0x426fA03fB86E510d0Dd9F70335Cf102a98b10875"),
	})
}
