package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

// ResolutionMode selects how names are resolved on a network.
type ResolutionMode string

const (
	// UniversalResolution goes through the ENS Universal Resolver.
	UniversalResolution ResolutionMode = "universal"
	// DirectResolution calls addr/text on a single resolver contract.
	DirectResolution ResolutionMode = "direct"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	GetResolutionMode() ResolutionMode
	GetUniversalResolver() common.Address
	GetTextResolver() common.Address
	GetL2Resolver() common.Address

	MarshalJSON() ([]byte, error)
}
