package association

import (
	"fmt"

	assoccommon "github.com/tranvictor/assoc/common"
)

// FetchError is a failed GET: either a non-2xx status or, when StatusCode is
// zero, a request that never got a response.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch associations from %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch associations from %s: %s", e.URL, e.Status)
}

func (e *FetchError) Is(target error) bool {
	return target == assoccommon.ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError is a response body that is not an association document.
// Field and Tag are set when struct validation rejected it.
type DecodeError struct {
	Field string
	Tag   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed association document: field %s failed %q", e.Field, e.Tag)
	}
	return fmt.Sprintf("malformed association document: %s", e.Err)
}

func (e *DecodeError) Is(target error) bool {
	return target == assoccommon.ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
