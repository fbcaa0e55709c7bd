package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/ui"
	"github.com/tranvictor/assoc/util"
	"github.com/tranvictor/assoc/util/addrbook"
)

func runWhois(u ui.UI, para string, book addrbook.AddressResolver) {
	addresses := util.ScanForAddresses(para)
	if len(addresses) == 0 {
		u.Warn("Couldn't find any addresses in the params")
		return
	}
	rows := make([][2]string, 0, len(addresses))
	for _, address := range addresses {
		addr, _ := util.ParseAddress(address)
		labelled := book.Resolve(addr)
		desc := ui.Good(labelled.Desc)
		if !labelled.Known() {
			desc = ui.Caution("not found")
		}
		rows = append(rows, [2]string{labelled.Address, u.Style(desc)})
	}
	u.KeyValue(rows)
}

var whoisCmd = &cobra.Command{
	Use:   "whois",
	Short: "Show the address book label of one or multiple addresses",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		runWhois(ui.NewTerminalUI(), strings.Join(args, " "), addrbook.Default())
	},
}

func init() {
	rootCmd.AddCommand(whoisCmd)
}
