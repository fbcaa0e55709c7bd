// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/networks"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assoc",
	Short: "Resolve a name's association document and verify its signatures",
	Long: `assoc resolves a name to an address, reads the document its "associations-url"
text record points at, and tells you whether the resolved address takes part in any
of the associations listed there. It can also check that an association's
initiatorSignature was produced by the signer you expect, either by ecrecover or,
for contract accounts, through ERC-1271.

By default assoc resolves against ethereum mainnet through the ENS Universal
Resolver. Base and base-sepolia are resolved directly against their L2 resolver.
You can point a network at your own node by setting its env var, for example
ETHEREUM_MAINNET_NODE or BASE_MAINNET_NODE, or by passing --node. Variables are
also read from a .env file in the working directory (see --env-file).

Custom networks can be added as json files under ~/.assoc/networks/ and address
labels under ~/.assoc/addressbook.json.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup runs before every subcommand: env file, logging, then network.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(config.EnvFile); err != nil {
		return err
	}

	handler := log.NewTerminalHandlerWithLevel(
		os.Stderr,
		log.FromLegacyLevel(config.Verbosity),
		term.IsTerminal(int(os.Stderr.Fd())),
	)
	log.SetDefault(log.NewLogger(handler))

	if err := networks.SetNetwork(config.Network); err != nil {
		return err
	}
	log.Debug("network selected", "network", networks.CurrentNetwork().GetName())
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&config.Network, "network", "k", "mainnet", fmt.Sprintf("network to resolve on. Valid values: %q, or a custom network name.", networks.GetSupportedNetworkNames()))
	flags.StringSliceVar(&config.Nodes, "node", nil, "rpc node url to use instead of the network's nodes. Can be repeated.")
	flags.StringVar(&config.UniversalResolver, "universal-resolver", "", "resolver contract to call instead of the network's default (the L2 resolver on direct networks)")
	flags.StringVar(&config.TextResolver, "text-resolver", "", "contract used for text record lookups on universal resolver networks")
	flags.DurationVarP(&config.Timeout, "timeout", "t", 30*time.Second, "deadline for the whole command, 0 disables it")
	flags.BoolVarP(&config.JSONOutput, "json", "j", false, "print machine readable json instead of tables")
	flags.IntVarP(&config.Verbosity, "verbosity", "v", 2, "log level: 0=crit 1=error 2=warn 3=info 4=debug 5=trace")
	flags.StringVar(&config.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file to load before running")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
