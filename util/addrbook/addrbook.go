// Package addrbook maps addresses to human readable labels for display.
//
// Production code uses [Default], which reads a JSON address book from
// ~/.assoc/addressbook.json. Tests use [Map].
package addrbook

import (
	"github.com/ethereum/go-ethereum/common"

	assoccommon "github.com/tranvictor/assoc/common"
)

// AddressResolver labels an address. Unknown addresses get Desc "unknown".
type AddressResolver interface {
	Resolve(addr common.Address) assoccommon.Address
}

// Chain asks each resolver in turn and returns the first known label.
type Chain []AddressResolver

func (c Chain) Resolve(addr common.Address) assoccommon.Address {
	for _, r := range c {
		if r == nil {
			continue
		}
		if a := r.Resolve(addr); a.Known() {
			return a
		}
	}
	return assoccommon.NewAddress(addr, "")
}
