package util

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tranvictor/assoc/ens"
	"github.com/tranvictor/assoc/networks"
	"github.com/tranvictor/assoc/util/reader"
)

var addressPattern = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

func ScanForAddresses(para string) []string {
	re := regexp.MustCompile("0x[0-9a-fA-F]{40}([^0-9a-fA-F]|$)")
	result := re.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	for i := 0; i < len(result); i++ {
		result[i] = result[i][0:42]
	}
	return result
}

func IsAddress(addr string) bool {
	return addressPattern.MatchString(strings.TrimSpace(addr))
}

// ParseAddress accepts 0x-prefixed hex in any case.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !IsAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not a 0x-prefixed 20-byte hex address", s)
	}
	return common.HexToAddress(s), nil
}

// GetNodes is the network's node set. Explicit node urls replace it
// entirely.
func GetNodes(network networks.Network, overrides []string) map[string]string {
	if len(overrides) == 0 {
		return networks.GetNodes(network)
	}
	nodes := map[string]string{}
	for i, url := range overrides {
		nodes[fmt.Sprintf("flag-node-%d", i+1)] = url
	}
	return nodes
}

func EthReader(network networks.Network, overrides []string) (*reader.EthReader, error) {
	nodes := GetNodes(network, overrides)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no nodes configured, set %s", network.GetName(), network.GetNodeVariableName())
	}
	return reader.NewEthReaderGeneric(nodes), nil
}

// ResolverOverrides replace the network's resolver contracts when non-empty.
type ResolverOverrides struct {
	UniversalResolver string
	TextResolver      string
}

// NameResolver builds the resolver a network's resolution mode calls for.
func NameResolver(network networks.Network, r *reader.EthReader, overrides ResolverOverrides, client *http.Client, logger log.Logger) (ens.Resolver, error) {
	opts := []ens.Option{ens.WithHTTPClient(client), ens.WithLogger(logger)}
	switch network.GetResolutionMode() {
	case networks.DirectResolution:
		resolver := network.GetL2Resolver()
		if overrides.UniversalResolver != "" {
			addr, err := ParseAddress(overrides.UniversalResolver)
			if err != nil {
				return nil, fmt.Errorf("resolver override: %w", err)
			}
			resolver = addr
		}
		return ens.NewDirectResolver(r, resolver, opts...), nil
	case networks.UniversalResolution:
		universal := network.GetUniversalResolver()
		text := network.GetTextResolver()
		if overrides.UniversalResolver != "" {
			addr, err := ParseAddress(overrides.UniversalResolver)
			if err != nil {
				return nil, fmt.Errorf("universal resolver override: %w", err)
			}
			universal = addr
		}
		if overrides.TextResolver != "" {
			addr, err := ParseAddress(overrides.TextResolver)
			if err != nil {
				return nil, fmt.Errorf("text resolver override: %w", err)
			}
			text = addr
		}
		return ens.NewUniversalResolver(r, universal, text, opts...), nil
	}
	return nil, fmt.Errorf("network %s has unknown resolution mode %q", network.GetName(), network.GetResolutionMode())
}
