package ens

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	assoccommon "github.com/tranvictor/assoc/common"
)

// DirectResolver reads addr and text records straight from one resolver
// contract.
type DirectResolver struct {
	caller   *OffchainCaller
	resolver common.Address
	logger   log.Logger
}

func NewDirectResolver(caller ethereum.ContractCaller, resolver common.Address, opts ...Option) *DirectResolver {
	o := buildOptions(opts)
	return &DirectResolver{
		caller:   NewOffchainCaller(caller, o.httpClient, o.logger),
		resolver: resolver,
		logger:   o.logger,
	}
}

func (dr *DirectResolver) Resolve(ctx context.Context, name string) (*ResolvedName, error) {
	normalized, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	data, err := resolverABI.Pack("addr", Namehash(normalized))
	if err != nil {
		return nil, fmt.Errorf("pack addr call: %w", err)
	}
	out, err := dr.caller.Call(ctx, dr.resolver, data)
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			return nil, fmt.Errorf("%w: %s", assoccommon.ErrNoAddressBound, name)
		}
		return nil, err
	}
	addr, ok := unpackAddress(out)
	if !ok {
		return nil, fmt.Errorf("%w: %s", assoccommon.ErrNoAddressBound, name)
	}
	dr.logger.Debug("Resolved name", "name", normalized, "address", addr, "resolver", dr.resolver)
	return &ResolvedName{RawName: name, NormalizedName: normalized, Address: addr}, nil
}

func (dr *DirectResolver) LookupText(ctx context.Context, normalizedName, key string) (string, bool, error) {
	data, err := resolverABI.Pack("text", Namehash(normalizedName), key)
	if err != nil {
		return "", false, fmt.Errorf("pack text call: %w", err)
	}
	out, err := dr.caller.Call(ctx, dr.resolver, data)
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			return "", false, nil
		}
		return "", false, err
	}
	value, ok := unpackText(out)
	return value, ok, nil
}
