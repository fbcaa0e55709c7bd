package ens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/util/reader"
)

const (
	// MaxCCIPRedirects bounds how many OffchainLookup reverts one call follows.
	MaxCCIPRedirects = 4

	maxGatewayResponse = 1 << 20
)

// OffchainLookup is the decoded EIP-3668 revert.
type OffchainLookup struct {
	Sender           common.Address
	URLs             []string
	CallData         []byte
	CallbackFunction [4]byte
	ExtraData        []byte
}

// RevertError is a contract revert that is not an offchain lookup.
type RevertError struct {
	Data []byte
	Err  error
}

func (e *RevertError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("execution reverted: %s", hexutil.Encode(e.Data))
	}
	return fmt.Sprintf("execution reverted: %s", e.Err)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

func decodeOffchainLookup(data []byte) (*OffchainLookup, bool) {
	e, ok := universalResolverABI.Errors["OffchainLookup"]
	if !ok || len(data) < 4 || !bytes.Equal(data[:4], e.ID[:4]) {
		return nil, false
	}
	values, err := e.Inputs.Unpack(data[4:])
	if err != nil || len(values) != 5 {
		return nil, false
	}
	lookup := &OffchainLookup{}
	var okAll bool
	lookup.Sender, okAll = values[0].(common.Address)
	if !okAll {
		return nil, false
	}
	if lookup.URLs, okAll = values[1].([]string); !okAll {
		return nil, false
	}
	if lookup.CallData, okAll = values[2].([]byte); !okAll {
		return nil, false
	}
	if lookup.CallbackFunction, okAll = values[3].([4]byte); !okAll {
		return nil, false
	}
	if lookup.ExtraData, okAll = values[4].([]byte); !okAll {
		return nil, false
	}
	return lookup, true
}

var callbackArgs = func() abi.Arguments {
	bytesTy, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: bytesTy}, {Type: bytesTy}}
}()

// OffchainCaller issues eth_call requests and transparently follows
// EIP-3668 offchain lookups.
type OffchainCaller struct {
	caller ethereum.ContractCaller
	http   *http.Client
	logger log.Logger
}

func NewOffchainCaller(caller ethereum.ContractCaller, client *http.Client, logger log.Logger) *OffchainCaller {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.Root()
	}
	return &OffchainCaller{caller: caller, http: client, logger: logger}
}

// Call executes data against to. A plain revert comes back as *RevertError,
// a node or gateway failure wraps common.ErrTransport.
func (oc *OffchainCaller) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	for redirects := 0; ; redirects++ {
		out, err := oc.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if err == nil {
			return out, nil
		}
		revert, isRevert := reader.RevertData(err)
		if !isRevert {
			return nil, fmt.Errorf("%w: eth_call %s: %w", assoccommon.ErrTransport, to.Hex(), err)
		}
		lookup, isLookup := decodeOffchainLookup(revert)
		if !isLookup {
			return nil, &RevertError{Data: revert, Err: err}
		}
		if redirects >= MaxCCIPRedirects {
			return nil, fmt.Errorf("%w: too many offchain lookups (%d)", assoccommon.ErrTransport, redirects)
		}
		if lookup.Sender != to {
			return nil, fmt.Errorf(
				"%w: offchain lookup sender %s does not match %s",
				assoccommon.ErrTransport, lookup.Sender.Hex(), to.Hex(),
			)
		}
		oc.logger.Debug("Following offchain lookup", "contract", to, "urls", len(lookup.URLs), "redirect", redirects+1)
		response, err := oc.queryGateways(ctx, lookup)
		if err != nil {
			return nil, err
		}
		args, err := callbackArgs.Pack(response, lookup.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("pack offchain callback: %w", err)
		}
		data = append(lookup.CallbackFunction[:], args...)
	}
}

type gatewayResponse struct {
	Data string `json:"data"`
}

// queryGateways tries each URL in order. A 4xx answer is final, server errors
// and transport failures move on to the next URL.
func (oc *OffchainCaller) queryGateways(ctx context.Context, lookup *OffchainLookup) ([]byte, error) {
	sender := strings.ToLower(lookup.Sender.Hex())
	callData := hexutil.Encode(lookup.CallData)
	errs := []error{}
	for _, tmpl := range lookup.URLs {
		u := strings.ReplaceAll(tmpl, "{sender}", sender)
		u = strings.ReplaceAll(u, "{data}", callData)

		var req *http.Request
		var err error
		if strings.Contains(tmpl, "{data}") {
			req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		} else {
			body, _ := json.Marshal(map[string]string{"data": callData, "sender": sender})
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
			if req != nil {
				req.Header.Set("Content-Type", "application/json")
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tmpl, err))
			continue
		}

		resp, err := oc.http.Do(req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tmpl, err))
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxGatewayResponse))
		resp.Body.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tmpl, err))
			continue
		}
		switch {
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, fmt.Errorf("%w: gateway %s rejected lookup: %s", assoccommon.ErrTransport, tmpl, resp.Status)
		case resp.StatusCode >= 500:
			errs = append(errs, fmt.Errorf("%s: %s", tmpl, resp.Status))
			continue
		}

		result, err := decodeGatewayBody(resp.Header.Get("Content-Type"), body)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tmpl, err))
			continue
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w: no gateway answered: %w", assoccommon.ErrTransport, errors.Join(errs...))
}

func decodeGatewayBody(contentType string, body []byte) ([]byte, error) {
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(text, "{") {
		var gr gatewayResponse
		if err := json.Unmarshal(body, &gr); err != nil {
			return nil, fmt.Errorf("invalid gateway response: %w", err)
		}
		text = gr.Data
	}
	return hexutil.Decode(text)
}
