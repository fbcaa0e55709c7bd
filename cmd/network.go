package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/networks"
	"github.com/tranvictor/assoc/ui"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

func resolverColumn(n networks.Network) string {
	if n.GetResolutionMode() == networks.DirectResolution {
		return n.GetL2Resolver().Hex()
	}
	return n.GetUniversalResolver().Hex()
}

func runListNetworks(u ui.UI, list []networks.Network, current string, json bool) error {
	if json {
		return u.JSON(list)
	}
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		name := n.GetName()
		if name == current {
			name = u.Style(ui.Good(name + " *"))
		}
		nodes := []string{}
		for key := range networks.GetNodes(n) {
			nodes = append(nodes, key)
		}
		sort.Strings(nodes)
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", n.GetChainID()),
			string(n.GetResolutionMode()),
			resolverColumn(n),
			strings.Join(nodes, ", "),
			n.GetNodeVariableName(),
		})
	}
	u.Table([]string{"Name", "Chain ID", "Mode", "Resolver", "Nodes", "Node env var"}, rows)
	return nil
}

// replaceAllowed decides whether an existing network called name may be
// overwritten: always with --force, otherwise only when the user confirms.
func replaceAllowed(u ui.UI, name string, force bool) bool {
	if force {
		u.Warn("Network with name %s already exists. It will be replaced.", name)
		return true
	}
	if !u.Interactive() {
		return false
	}
	return u.Confirm(fmt.Sprintf("Network with name %s already exists. Replace it?", name), false)
}

// readNetworkConfig accepts inline json or a path to a json file.
func readNetworkConfig(s string) (networks.Network, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("--config is required")
	}
	content := []byte(s)
	if !strings.HasPrefix(s, "{") {
		var err error
		content, err = os.ReadFile(s)
		if err != nil {
			return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
		}
	}
	return networks.NewNetworkFromJSON(content)
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a network to the supported networks list locally",
	Long: `--config takes a network config json filepath OR a json string in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"node_variable_name": "NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"resolution_mode": "universal",
		"universal_resolver": "0x...",
		"text_resolver": "0x...",
		"l2_resolver": "0x..."
	}
resolution_mode "universal" needs universal_resolver, "direct" needs l2_resolver.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		newNetwork, err := readNetworkConfig(NetworkConfig)
		if err != nil {
			return err
		}

		names := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
		for _, name := range names {
			if _, err := networks.GetNetwork(name); err == nil && !replaceAllowed(u, name, NetworkForce) {
				return fmt.Errorf("network with name %s already exists, use --force to replace it", name)
			}
		}
		if id := newNetwork.GetChainID(); id != 0 {
			if existing, err := networks.GetNetworkByID(id); err == nil && existing.GetName() != newNetwork.GetName() {
				u.Warn("Chain ID %d is already used by %s.", id, existing.GetName())
			}
		}

		if err := networks.AddNetwork(newNetwork); err != nil {
			return fmt.Errorf("failed to add the new network: %w", err)
		}
		u.Success("Network %s with chain ID %d added and saved to ~/.assoc/networks/.", newNetwork.GetName(), newNetwork.GetChainID())
		return nil
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		current := networks.CurrentNetwork().GetName()
		if err := runListNetworks(u, networks.GetSupportedNetworks(), current, config.JSONOutput); err != nil {
			return err
		}
		if !config.JSONOutput {
			u.Info("To add a network: assoc network add --config network.json")
			u.Info("To delete one, delete its json file in ~/.assoc/networks/.")
		}
		return nil
	},
}

var networkCmd = &cobra.Command{
	Use:     "network",
	Aliases: []string{"networks"},
	Short:   "Manage the networks assoc resolves on",
	Long:    ``,
}

func init() {
	addNetworkCmd.Flags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.Flags().BoolVarP(&NetworkForce, "force", "f", false, "Replace the network if it already exists")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
