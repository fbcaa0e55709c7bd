package common

import "errors"

// Sentinel errors shared by the resolver, fetcher and engine. Components wrap
// them with fmt.Errorf("...: %w", ...) so callers can classify with errors.Is.
var (
	ErrNormalization     = errors.New("name normalization failed")
	ErrNoAddressBound    = errors.New("no address bound to name")
	ErrNoAssociationsURL = errors.New("no associations-url text record")
	ErrFetch             = errors.New("association document fetch failed")
	ErrDecode            = errors.New("association document is malformed")
	ErrTransport         = errors.New("rpc transport failure")
)
