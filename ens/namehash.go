package ens

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash implements EIP-137 over an already normalized name.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := LabelHash(labels[i])
		node = crypto.Keccak256Hash(node[:], label[:])
	}
	return node
}

// LabelHash is keccak256 of the label. A label already written in the
// encoded "[<64 hex chars>]" form is taken as the hash itself.
func LabelHash(label string) common.Hash {
	if h, ok := encodedLabelHash(label); ok {
		return h
	}
	return crypto.Keccak256Hash([]byte(label))
}

func encodedLabelHash(label string) (common.Hash, bool) {
	if len(label) != 66 || label[0] != '[' || label[65] != ']' {
		return common.Hash{}, false
	}
	b, err := hex.DecodeString(label[1:65])
	if err != nil {
		return common.Hash{}, false
	}
	return common.BytesToHash(b), true
}

// DNSEncode writes name in DNS wire format as the Universal Resolver expects
// it. Labels longer than 255 bytes are replaced by their encoded labelhash.
func DNSEncode(name string) ([]byte, error) {
	if name == "" {
		return []byte{0}, nil
	}
	out := make([]byte, 0, len(name)+2)
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return nil, fmt.Errorf("empty label in %q", name)
		}
		if len(label) > 255 {
			h := crypto.Keccak256Hash([]byte(label))
			label = "[" + hex.EncodeToString(h[:]) + "]"
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}
