package association

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	"github.com/go-playground/validator"

	assoccommon "github.com/tranvictor/assoc/common"
)

// MaxDocumentSize bounds how much of a response body is read.
const MaxDocumentSize = 4 << 20

// Fetcher retrieves and decodes the document published at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// HTTPFetcher does exactly one GET per Fetch. It neither retries nor caches.
type HTTPFetcher struct {
	client *http.Client
	logger log.Logger
}

func NewHTTPFetcher(client *http.Client, logger log.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.Root()
	}
	return &HTTPFetcher{client: client, logger: logger}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching association document", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		// A cancelled or expired ctx is the caller's doing, not the endpoint's.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: fetching %s: %w", assoccommon.ErrTransport, url, ctxErr)
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxDocumentSize))
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", assoccommon.ErrTransport, url, ctxErr)
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	if len(body) > MaxDocumentSize {
		return nil, &DecodeError{Err: fmt.Errorf("document exceeds %d bytes", MaxDocumentSize)}
	}

	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("decoded association document", "url", url, "associations", len(doc.Associations))
	return doc, nil
}

var documentValidator = validator.New()

// Decode parses and validates an association document. Any failure is a
// *DecodeError.
func Decode(body []byte) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := validateWire(&wire); err != nil {
		return nil, err
	}
	doc := &Document{
		Account:      wire.Account,
		Associations: make([]Association, 0, len(wire.Associations)),
	}
	for _, w := range wire.Associations {
		doc.Associations = append(doc.Associations, w.association())
	}
	return doc, nil
}

// DecodeAssociation parses and validates a single association with the same
// rules Decode applies to each entry of a document.
func DecodeAssociation(body []byte) (Association, error) {
	var wire wireAssociation
	if err := json.Unmarshal(body, &wire); err != nil {
		return Association{}, &DecodeError{Err: err}
	}
	if err := validateWire(&wire); err != nil {
		return Association{}, err
	}
	return wire.association(), nil
}

func validateWire(v any) error {
	err := documentValidator.Struct(v)
	if err == nil {
		return nil
	}
	var validateErrors validator.ValidationErrors
	if errors.As(err, &validateErrors) && len(validateErrors) > 0 {
		first := validateErrors[0]
		return &DecodeError{
			Field: first.Namespace(),
			Tag:   first.Tag(),
			Err:   err,
		}
	}
	return &DecodeError{Err: err}
}
