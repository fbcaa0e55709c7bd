package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const universalResolverABIJSON = `[
	{
		"type": "function",
		"name": "resolve",
		"stateMutability": "view",
		"inputs": [
			{"name": "name", "type": "bytes"},
			{"name": "data", "type": "bytes"}
		],
		"outputs": [
			{"name": "", "type": "bytes"},
			{"name": "", "type": "address"}
		]
	},
	{
		"type": "error",
		"name": "OffchainLookup",
		"inputs": [
			{"name": "sender", "type": "address"},
			{"name": "urls", "type": "string[]"},
			{"name": "callData", "type": "bytes"},
			{"name": "callbackFunction", "type": "bytes4"},
			{"name": "extraData", "type": "bytes"}
		]
	}
]`

// Subset of the public resolver surface (addr and text getters) shared by the
// mainnet public resolver and the Base L2 resolver.
const resolverABIJSON = `[
	{
		"type": "function",
		"name": "addr",
		"stateMutability": "view",
		"inputs": [{"name": "node", "type": "bytes32"}],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "function",
		"name": "text",
		"stateMutability": "view",
		"inputs": [
			{"name": "node", "type": "bytes32"},
			{"name": "key", "type": "string"}
		],
		"outputs": [{"name": "", "type": "string"}]
	}
]`

var (
	universalResolverABI = mustParseABI(universalResolverABIJSON)
	resolverABI          = mustParseABI(resolverABIJSON)
)

func mustParseABI(s string) *abi.ABI {
	result, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return &result
}

// UniversalResolverABI exposes the parsed Universal Resolver ABI so tests and
// fakes can encode responses the same way the resolver decodes them.
func UniversalResolverABI() *abi.ABI {
	return universalResolverABI
}

// ResolverABI exposes the parsed addr/text resolver ABI.
func ResolverABI() *abi.ABI {
	return resolverABI
}
