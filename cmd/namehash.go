package cmd

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/ens"
	"github.com/tranvictor/assoc/ui"
)

type nameInfo struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
	Namehash   string `json:"namehash"`
	DNSEncoded string `json:"dnsEncoded"`
}

func describeName(name string) (*nameInfo, error) {
	normalized, err := ens.Normalize(name)
	if err != nil {
		return nil, err
	}
	encoded, err := ens.DNSEncode(normalized)
	if err != nil {
		return nil, err
	}
	return &nameInfo{
		Name:       name,
		Normalized: normalized,
		Namehash:   ens.Namehash(normalized).Hex(),
		DNSEncoded: hexutil.Encode(encoded),
	}, nil
}

func runNamehash(u ui.UI, name string, json bool) error {
	info, err := describeName(name)
	if err != nil {
		return err
	}
	if json {
		return u.JSON(info)
	}
	u.KeyValue([][2]string{
		{"Normalized", info.Normalized},
		{"Namehash", info.Namehash},
		{"DNS encoded", info.DNSEncoded},
	})
	return nil
}

var namehashCmd = &cobra.Command{
	Use:   "namehash <name>",
	Short: "Show the normalized form, namehash and DNS encoding of a name",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNamehash(ui.NewTerminalUI(), args[0], config.JSONOutput)
	},
}

func init() {
	rootCmd.AddCommand(namehashCmd)
}
