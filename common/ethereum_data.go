package common

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a hex address paired with a human readable description.
// Desc is "unknown" when nothing is known about the address.
type Address struct {
	Address string
	Desc    string
}

func NewAddress(addr common.Address, desc string) Address {
	if desc == "" {
		desc = "unknown"
	}
	return Address{Address: addr.Hex(), Desc: desc}
}

func (a Address) Known() bool {
	return a.Desc != "" && a.Desc != "unknown"
}

// PlainAddress renders "0x... (desc)" without any colour markup.
func PlainAddress(a Address) string {
	return fmt.Sprintf("%s (%s)", a.Address, a.Desc)
}

func ShortHex(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 22 {
		return s
	}
	return s[:12] + "..." + s[len(s)-8:]
}
