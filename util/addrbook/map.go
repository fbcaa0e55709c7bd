package addrbook

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	assoccommon "github.com/tranvictor/assoc/common"
)

// Map is keyed by hex address in any case.
//
//	m := addrbook.Map{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "vitalik.eth"}
type Map map[string]string

func (m Map) Resolve(addr common.Address) assoccommon.Address {
	if desc, ok := m[strings.ToLower(addr.Hex())]; ok {
		return assoccommon.NewAddress(addr, desc)
	}
	for k, desc := range m {
		if strings.EqualFold(k, addr.Hex()) {
			return assoccommon.NewAddress(addr, desc)
		}
	}
	return assoccommon.NewAddress(addr, "")
}
