package engine

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/tranvictor/assoc/association"
	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/ens"
	"github.com/tranvictor/assoc/signature"
)

// Result of a successful ResolveAssociations call. The engine never returns
// a partial Result; the nullable fields are only nil in zero values.
type Result struct {
	Name                   string                `json:"name"`
	ForwardResolvedAddress *common.Address       `json:"forwardResolvedAddress"`
	AssociationsURL        *string               `json:"associationsUrl"`
	AssociationsData       *association.Document `json:"associationsData"`
	HasMatchingAssociation bool                  `json:"hasMatchingAssociation"`

	NormalizedName string `json:"-"`
	CallID         string `json:"-"`
}

// Verifier is the signature check the engine delegates to.
type Verifier interface {
	Verify(ctx context.Context, a association.Association, expected common.Address) (*signature.Result, error)
}

// Engine wires resolver, fetcher and verifier together. It keeps no state
// between calls, so one Engine can serve concurrent callers.
type Engine struct {
	resolver ens.Resolver
	fetcher  association.Fetcher
	verifier Verifier
	observer Observer
	logger   log.Logger
}

type Option func(*Engine)

// WithObserver receives every state transition of every call.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(resolver ens.Resolver, fetcher association.Fetcher, verifier Verifier, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		fetcher:  fetcher,
		verifier: verifier,
		logger:   log.Root(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveAssociations resolves name, fetches the document its
// associations-url record points at and reports whether the resolved address
// takes part in any association. The only deadline is the one carried by ctx.
func (e *Engine) ResolveAssociations(ctx context.Context, name string) (*Result, error) {
	t := &tracker{callID: uuid.NewString(), name: name, observer: e.observer}
	logger := e.logger.New("call", t.callID, "name", name)
	fail := func(err error) (*Result, error) {
		t.moveTo(Failed)
		kind := classify(err)
		logger.Debug("resolution failed", "kind", kind, "err", err)
		return nil, &Error{Kind: kind, Name: name, Err: err}
	}

	t.moveTo(Resolving)
	resolved, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return fail(err)
	}
	logger.Debug("forward resolved", "normalized", resolved.NormalizedName, "address", resolved.Address.Hex())

	url, ok, err := e.resolver.LookupText(ctx, resolved.NormalizedName, ens.AssociationsURLKey)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(fmt.Errorf("%w for %s", assoccommon.ErrNoAssociationsURL, resolved.NormalizedName))
	}

	t.moveTo(Fetching)
	logger.Debug("fetching associations", "url", url)
	doc, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return fail(err)
	}

	t.moveTo(Matching)
	address := resolved.Address
	result := &Result{
		Name:                   name,
		ForwardResolvedAddress: &address,
		AssociationsURL:        &url,
		AssociationsData:       doc,
		HasMatchingAssociation: association.HasMatch(doc, address),
		NormalizedName:         resolved.NormalizedName,
		CallID:                 t.callID,
	}
	t.moveTo(Done)
	logger.Info("resolved associations", "associations", len(doc.Associations), "match", result.HasMatchingAssociation)
	return result, nil
}

// VerifyAssociation checks a's initiator signature against expected. An
// invalid signature is a Result with IsValid false, never an error.
func (e *Engine) VerifyAssociation(ctx context.Context, a association.Association, expected common.Address) (*signature.Result, error) {
	res, err := e.verifier.Verify(ctx, a, expected)
	if err != nil {
		return nil, &Error{Kind: TransportError, Err: err}
	}
	e.logger.Debug("verified association", "id", a.ID, "expected", expected.Hex(), "valid", res.IsValid)
	return res, nil
}
