package ens

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	assoccommon "github.com/tranvictor/assoc/common"
)

// UniversalResolver resolves names through an ENS Universal Resolver.
// Address resolution and text lookups may target different deployments; the
// text lookup uses the discovery contract when one is configured.
type UniversalResolver struct {
	caller    *OffchainCaller
	universal common.Address
	discovery common.Address
	logger    log.Logger
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     log.Logger
}

// WithHTTPClient sets the client used for offchain gateway requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{logger: log.Root()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Root()
	}
	return o
}

// NewUniversalResolver builds a resolver. A zero discovery address means text
// records are looked up through universal as well.
func NewUniversalResolver(caller ethereum.ContractCaller, universal, discovery common.Address, opts ...Option) *UniversalResolver {
	o := buildOptions(opts)
	if discovery == (common.Address{}) {
		discovery = universal
	}
	return &UniversalResolver{
		caller:    NewOffchainCaller(caller, o.httpClient, o.logger),
		universal: universal,
		discovery: discovery,
		logger:    o.logger,
	}
}

func (ur *UniversalResolver) Resolve(ctx context.Context, name string) (*ResolvedName, error) {
	normalized, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	node := Namehash(normalized)
	data, err := resolverABI.Pack("addr", node)
	if err != nil {
		return nil, fmt.Errorf("pack addr call: %w", err)
	}
	inner, err := ur.resolve(ctx, ur.universal, normalized, data)
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			ur.logger.Debug("Universal resolver reverted on addr", "name", normalized, "err", revert)
			return nil, fmt.Errorf("%w: %s", assoccommon.ErrNoAddressBound, name)
		}
		return nil, err
	}
	addr, ok := unpackAddress(inner)
	if !ok {
		return nil, fmt.Errorf("%w: %s", assoccommon.ErrNoAddressBound, name)
	}
	ur.logger.Debug("Resolved name", "name", normalized, "address", addr)
	return &ResolvedName{RawName: name, NormalizedName: normalized, Address: addr}, nil
}

func (ur *UniversalResolver) LookupText(ctx context.Context, normalizedName, key string) (string, bool, error) {
	node := Namehash(normalizedName)
	data, err := resolverABI.Pack("text", node, key)
	if err != nil {
		return "", false, fmt.Errorf("pack text call: %w", err)
	}
	inner, err := ur.resolve(ctx, ur.discovery, normalizedName, data)
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			ur.logger.Debug("Universal resolver reverted on text", "name", normalizedName, "key", key, "err", revert)
			return "", false, nil
		}
		return "", false, err
	}
	value, ok := unpackText(inner)
	return value, ok, nil
}

// resolve calls resolve(bytes,bytes) on contract and returns the resolver's
// own return data.
func (ur *UniversalResolver) resolve(ctx context.Context, contract common.Address, name string, data []byte) ([]byte, error) {
	dnsName, err := DNSEncode(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", assoccommon.ErrNormalization, err)
	}
	calldata, err := universalResolverABI.Pack("resolve", dnsName, data)
	if err != nil {
		return nil, fmt.Errorf("pack resolve call: %w", err)
	}
	out, err := ur.caller.Call(ctx, contract, calldata)
	if err != nil {
		return nil, err
	}
	values, err := universalResolverABI.Unpack("resolve", out)
	if err != nil || len(values) != 2 {
		return nil, &RevertError{Data: out, Err: fmt.Errorf("undecodable resolve result: %v", err)}
	}
	inner, ok := values[0].([]byte)
	if !ok {
		return nil, &RevertError{Data: out, Err: fmt.Errorf("unexpected resolve result type %T", values[0])}
	}
	return inner, nil
}

func unpackAddress(data []byte) (common.Address, bool) {
	if len(data) == 0 {
		return common.Address{}, false
	}
	values, err := resolverABI.Unpack("addr", data)
	if err != nil || len(values) != 1 {
		return common.Address{}, false
	}
	addr, ok := values[0].(common.Address)
	if !ok || addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}

func unpackText(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	values, err := resolverABI.Unpack("text", data)
	if err != nil || len(values) != 1 {
		return "", false
	}
	value, ok := values[0].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
