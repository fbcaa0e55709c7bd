package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/ui"
)

const VERSION = "0.1.0"

type versionInfo struct {
	Version    string `json:"version"`
	GoVersion  string `json:"goVersion"`
	GoEthereum string `json:"goEthereum,omitempty"`
}

func currentVersion() versionInfo {
	info := versionInfo{Version: VERSION, GoVersion: runtime.Version()}
	if build, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range build.Deps {
			if dep.Path == "github.com/ethereum/go-ethereum" {
				info.GoEthereum = dep.Version
			}
		}
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show assoc version",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		info := currentVersion()
		if config.JSONOutput {
			return u.JSON(info)
		}
		rows := [][2]string{{"Version", info.Version}, {"Go", info.GoVersion}}
		if info.GoEthereum != "" {
			rows = append(rows, [2]string{"go-ethereum", info.GoEthereum})
		}
		u.KeyValue(rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
