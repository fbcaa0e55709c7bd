package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resolution and verification over HTTP",
	Long: `Serve the resolver as a JSON API:

	GET  /healthz
	GET  /v1/associations/{name}
	POST /v1/verify   {"association": {...}, "expectedSigner": "0x..."}

The address is taken from --listen, then ASSOC_LISTEN_ADDR, then 127.0.0.1:8645.
--timeout bounds each request instead of the whole process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.Root().New("component", "server")
		e, closeNodes, err := newEngine(logger, engine.WithObserver(func(t engine.Transition) {
			logger.Trace("state", "call", t.CallID, "name", t.Name, "from", t.From, "to", t.To)
		}))
		if err != nil {
			return err
		}
		defer closeNodes()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(e, config.Timeout, logger)
		return server.ListenAndServe(ctx, config.ListenAddress(), srv.Routes(), logger)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&config.ListenAddr, "listen", "l", "", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}
