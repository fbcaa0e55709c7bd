package ens

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// AssociationsURLKey is the text record that points at a name's association
// document.
const AssociationsURLKey = "associations-url"

// ResolvedName is produced once per Resolve call and never modified after.
type ResolvedName struct {
	RawName        string         `json:"rawName"`
	NormalizedName string         `json:"normalizedName"`
	Address        common.Address `json:"resolvedAddress"`
}

// Resolver is the forward resolution surface used by the engine.
//
// Resolve fails with common.ErrNormalization for invalid names and with
// common.ErrNoAddressBound when nothing is bound. LookupText reports a missing
// record with ok == false and a nil error.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*ResolvedName, error)
	LookupText(ctx context.Context, normalizedName, key string) (value string, ok bool, err error)
}
