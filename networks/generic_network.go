package networks

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

type GenericNetworkConfig struct {
	Name              string            `json:"name"`
	AlternativeNames  []string          `json:"alternative_names"`
	ChainID           uint64            `json:"chain_id"`
	NodeVariableName  string            `json:"node_variable_name"`
	DefaultNodes      map[string]string `json:"default_nodes"`
	ResolutionMode    ResolutionMode    `json:"resolution_mode"`
	UniversalResolver common.Address    `json:"universal_resolver"`
	TextResolver      common.Address    `json:"text_resolver"`
	L2Resolver        common.Address    `json:"l2_resolver"`
}

// GenericNetwork is a network fully described by its config. Built-in and
// custom networks are all GenericNetworks.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	if config.ResolutionMode == "" {
		config.ResolutionMode = UniversalResolution
	}
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetResolutionMode() ResolutionMode {
	return gn.config.ResolutionMode
}

func (gn *GenericNetwork) GetUniversalResolver() common.Address {
	return gn.config.UniversalResolver
}

// GetTextResolver is where text records are looked up. It falls back to the
// universal resolver when unset.
func (gn *GenericNetwork) GetTextResolver() common.Address {
	if gn.config.TextResolver == (common.Address{}) {
		return gn.config.UniversalResolver
	}
	return gn.config.TextResolver
}

func (gn *GenericNetwork) GetL2Resolver() common.Address {
	return gn.config.L2Resolver
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}
