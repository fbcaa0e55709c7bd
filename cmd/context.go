package cmd

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tranvictor/assoc/association"
	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/networks"
	"github.com/tranvictor/assoc/signature"
	"github.com/tranvictor/assoc/util"
)

// commandContext bounds a command by --timeout.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if config.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, config.Timeout)
}

func verifierOptions(logger log.Logger) []signature.Option {
	opts := []signature.Option{signature.WithLogger(logger)}
	if config.RawMessage {
		opts = append(opts, signature.WithRawMessage())
	}
	return opts
}

// newEngine wires resolver, fetcher and verifier for the current network.
// The returned func closes the node connections.
func newEngine(logger log.Logger, opts ...engine.Option) (*engine.Engine, func(), error) {
	network := networks.CurrentNetwork()
	r, err := util.EthReader(network, config.Nodes)
	if err != nil {
		return nil, nil, err
	}
	client := &http.Client{}
	resolver, err := util.NameResolver(network, r, util.ResolverOverrides{
		UniversalResolver: config.UniversalResolver,
		TextResolver:      config.TextResolver,
	}, client, logger)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return engine.New(
		resolver,
		association.NewHTTPFetcher(client, logger),
		signature.NewVerifier(r, verifierOptions(logger)...),
		opts...,
	), r.Close, nil
}
