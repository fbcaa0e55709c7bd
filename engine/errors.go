package engine

import (
	"errors"
	"fmt"

	assoccommon "github.com/tranvictor/assoc/common"
)

// Kind classifies why a call failed.
type Kind string

const (
	NormalizationError Kind = "NormalizationError"
	NoAddressBound     Kind = "NoAddressBound"
	NoAssociationsURL  Kind = "NoAssociationsUrl"
	FetchError         Kind = "FetchError"
	DecodeError        Kind = "DecodeError"
	TransportError     Kind = "TransportError"
)

// Error is the only error type the engine returns.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Name, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an engine error, or "" for anything else.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, assoccommon.ErrNormalization):
		return NormalizationError
	case errors.Is(err, assoccommon.ErrNoAddressBound):
		return NoAddressBound
	case errors.Is(err, assoccommon.ErrNoAssociationsURL):
		return NoAssociationsURL
	case errors.Is(err, assoccommon.ErrDecode):
		return DecodeError
	case errors.Is(err, assoccommon.ErrFetch):
		return FetchError
	default:
		return TransportError
	}
}
