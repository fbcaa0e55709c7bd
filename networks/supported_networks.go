package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	BaseMainnet,
	BaseSepolia,
}

var globalSupportedNetworks = newSupportedNetworks(supportedNetworks, customNetworksDir())
var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	networks     map[string]Network
	networksByID map[uint64]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) add(nw Network) {
	n.networks[nw.GetName()] = nw
	n.networksByID[nw.GetChainID()] = nw
	for _, an := range nw.GetAlternativeNames() {
		n.networks[an] = nw
	}
}

func newSupportedNetworks(builtin []Network, customDir string) *networks {
	result := networks{
		map[string]Network{},
		map[uint64]Network{},
	}
	for _, n := range builtin {
		names := append([]string{n.GetName()}, n.GetAlternativeNames()...)
		for _, name := range names {
			if _, found := result.networks[name]; found {
				panic(fmt.Errorf("network with name or alternative name of '%s' already exists", name))
			}
		}
		result.add(n)
	}

	if customDir == "" {
		return &result
	}
	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		log.Warn("Failed to load custom networks, continuing with built-in networks", "dir", customDir, "err", err)
		return &result
	}
	for _, n := range customNetworks {
		if _, found := result.networks[n.GetName()]; found {
			log.Info("Custom network overrides a built-in one", "name", n.GetName())
		}
		result.add(n)
	}
	return &result
}

// customNetworksDir is ~/.assoc/networks, or "" when there is no home.
func customNetworksDir() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join(usr.HomeDir, ".assoc", "networks")
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	networks := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			log.Warn("Skipping unparsable custom network", "file", file, "err", err)
			continue
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	switch networkConfig.ResolutionMode {
	case "", UniversalResolution:
		if networkConfig.UniversalResolver == (common.Address{}) {
			return nil, fmt.Errorf("network %s: universal resolution needs universal_resolver", networkConfig.Name)
		}
	case DirectResolution:
		if networkConfig.L2Resolver == (common.Address{}) {
			return nil, fmt.Errorf("network %s: direct resolution needs l2_resolver", networkConfig.Name)
		}
	default:
		return nil, fmt.Errorf("network %s: unknown resolution_mode %q", networkConfig.Name, networkConfig.ResolutionMode)
	}
	return NewGenericNetwork(networkConfig), nil
}

// GetSupportedNetworks lists every distinct network, ordered by name.
func GetSupportedNetworks() []Network {
	seen := map[string]bool{}
	res := []Network{}
	for _, n := range globalSupportedNetworks.networks {
		if seen[n.GetName()] {
			continue
		}
		seen[n.GetName()] = true
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetName() < res[j].GetName() })
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(strings.ToLower(strings.TrimSpace(name)))
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// GetNodes returns the network's default nodes plus the node named by its
// node variable, registered as "custom-node".
func GetNodes(n Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	if customNode := strings.TrimSpace(os.Getenv(n.GetNodeVariableName())); customNode != "" {
		nodes["custom-node"] = customNode
	}
	return nodes
}

// AddNetwork registers network for this process and stores it under
// ~/.assoc/networks/ so later runs pick it up.
func AddNetwork(network Network) error {
	globalSupportedNetworks.add(network)
	dir := customNetworksDir()
	if dir == "" {
		return fmt.Errorf("couldn't find the home directory to store network %s", network.GetName())
	}
	return saveNetwork(dir, network)
}

func saveNetwork(dir string, network Network) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", network.GetName()))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
