package ens_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/ens"
)

var (
	universalAddr = common.HexToAddress("0xeEeEEEeE14D718C2B47D9923Deab1335E144EeEe")
	discoveryAddr = common.HexToAddress("0x426fA03fB86E510d0Dd9F70335Cf102a98b10875")
	resolverAddr  = common.HexToAddress("0x231b0Ee14048e9dCcD1d247744d114a4EB5E8E63")
	aliceAddr     = common.HexToAddress("0xAAAA00000000000000000000000000000000111A")
)

// revertErr mimics the error a node returns for a reverted eth_call.
type revertErr struct {
	data string
}

func (e revertErr) Error() string          { return "execution reverted" }
func (e revertErr) ErrorData() interface{} { return e.data }

// fakeUniversal answers resolve(bytes,bytes) from in-memory records. It keeps
// a log of which contracts were called.
type fakeUniversal struct {
	t        *testing.T
	addrs    map[common.Hash]common.Address
	texts    map[common.Hash]map[string]string
	revertOn map[common.Hash]bool
	failWith error
	calls    []common.Address
	// when set, the first call reverts with an offchain lookup to these urls
	offchain []string
	callback [4]byte
}

func newFakeUniversal(t *testing.T) *fakeUniversal {
	return &fakeUniversal{
		t:        t,
		addrs:    map[common.Hash]common.Address{},
		texts:    map[common.Hash]map[string]string{},
		revertOn: map[common.Hash]bool{},
	}
}

func (f *fakeUniversal) setText(name, key, value string) {
	node := ens.Namehash(name)
	if f.texts[node] == nil {
		f.texts[node] = map[string]string{}
	}
	f.texts[node][key] = value
}

// answer evaluates resolver calldata against the records.
func (f *fakeUniversal) answer(data []byte) ([]byte, error) {
	rabi := ens.ResolverABI()
	switch {
	case bytes.Equal(data[:4], rabi.Methods["addr"].ID):
		args, err := rabi.Methods["addr"].Inputs.Unpack(data[4:])
		if err != nil {
			return nil, err
		}
		node := common.Hash(args[0].([32]byte))
		if f.revertOn[node] {
			return nil, revertErr{data: "0x77209fe8"}
		}
		return rabi.Methods["addr"].Outputs.Pack(f.addrs[node])
	case bytes.Equal(data[:4], rabi.Methods["text"].ID):
		args, err := rabi.Methods["text"].Inputs.Unpack(data[4:])
		if err != nil {
			return nil, err
		}
		node := common.Hash(args[0].([32]byte))
		return rabi.Methods["text"].Outputs.Pack(f.texts[node][args[1].(string)])
	}
	return nil, fmt.Errorf("unknown resolver selector %x", data[:4])
}

func (f *fakeUniversal) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.calls = append(f.calls, *call.To)
	uabi := ens.UniversalResolverABI()

	if bytes.Equal(call.Data[:4], f.callback[:]) {
		args, err := callbackArguments().Unpack(call.Data[4:])
		if err != nil {
			return nil, err
		}
		response := args[0].([]byte)
		if string(args[1].([]byte)) != "extra" {
			f.t.Errorf("callback lost extraData: %q", args[1])
		}
		return uabi.Methods["resolve"].Outputs.Pack(response, resolverAddr)
	}

	m := uabi.Methods["resolve"]
	if !bytes.Equal(call.Data[:4], m.ID) {
		return nil, fmt.Errorf("unexpected selector %x", call.Data[:4])
	}
	args, err := m.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	inner := args[1].([]byte)

	if len(f.offchain) > 0 {
		e := uabi.Errors["OffchainLookup"]
		packed, err := e.Inputs.Pack(*call.To, f.offchain, inner, f.callback, []byte("extra"))
		if err != nil {
			return nil, err
		}
		return nil, revertErr{data: hexutil.Encode(append(e.ID[:4], packed...))}
	}

	out, err := f.answer(inner)
	if err != nil {
		return nil, err
	}
	return m.Outputs.Pack(out, resolverAddr)
}

// resolveCallback(bytes,bytes) takes the same argument layout as resolve.
func callbackArguments() abi.Arguments {
	return ens.UniversalResolverABI().Methods["resolve"].Inputs
}

func TestUniversalResolverResolvesAddressAndText(t *testing.T) {
	chain := newFakeUniversal(t)
	chain.addrs[ens.Namehash("alice.eth")] = aliceAddr
	chain.setText("alice.eth", ens.AssociationsURLKey, "https://example.com/assoc.json")

	r := ens.NewUniversalResolver(chain, universalAddr, discoveryAddr)
	resolved, err := r.Resolve(context.Background(), "Alice.eth")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if resolved.Address != aliceAddr {
		t.Fatalf("want %s, got %s", aliceAddr.Hex(), resolved.Address.Hex())
	}
	if resolved.RawName != "Alice.eth" || resolved.NormalizedName != "alice.eth" {
		t.Fatalf("unexpected names %+v", resolved)
	}

	url, ok, err := r.LookupText(context.Background(), resolved.NormalizedName, ens.AssociationsURLKey)
	if err != nil || !ok {
		t.Fatalf("LookupText: ok=%v err=%v", ok, err)
	}
	if url != "https://example.com/assoc.json" {
		t.Fatalf("unexpected url %q", url)
	}

	if len(chain.calls) != 2 || chain.calls[0] != universalAddr || chain.calls[1] != discoveryAddr {
		t.Fatalf("addr must go to the universal resolver and text to discovery, calls: %v", chain.calls)
	}
}

func TestUniversalResolverIsDeterministic(t *testing.T) {
	chain := newFakeUniversal(t)
	chain.addrs[ens.Namehash("alice.eth")] = aliceAddr
	r := ens.NewUniversalResolver(chain, universalAddr, common.Address{})

	for i := 0; i < 3; i++ {
		resolved, err := r.Resolve(context.Background(), "alice.eth")
		if err != nil {
			t.Fatalf("Resolve #%d: %s", i, err)
		}
		if resolved.Address != aliceAddr {
			t.Fatalf("Resolve #%d returned %s", i, resolved.Address.Hex())
		}
	}
}

func TestUniversalResolverNoAddress(t *testing.T) {
	chain := newFakeUniversal(t)
	chain.revertOn[ens.Namehash("reverted.eth")] = true
	r := ens.NewUniversalResolver(chain, universalAddr, discoveryAddr)

	for _, name := range []string{"nobody.eth", "reverted.eth"} {
		_, err := r.Resolve(context.Background(), name)
		if !errors.Is(err, assoccommon.ErrNoAddressBound) {
			t.Errorf("%s: want ErrNoAddressBound, got %v", name, err)
		}
	}
}

func TestUniversalResolverMissingText(t *testing.T) {
	chain := newFakeUniversal(t)
	r := ens.NewUniversalResolver(chain, universalAddr, discoveryAddr)
	value, ok, err := r.LookupText(context.Background(), "alice.eth", ens.AssociationsURLKey)
	if err != nil {
		t.Fatalf("missing text must not be an error: %s", err)
	}
	if ok || value != "" {
		t.Fatalf("expected absent record, got %q", value)
	}
}

func TestUniversalResolverInvalidName(t *testing.T) {
	chain := newFakeUniversal(t)
	r := ens.NewUniversalResolver(chain, universalAddr, discoveryAddr)
	_, err := r.Resolve(context.Background(), "bad name.eth")
	if !errors.Is(err, assoccommon.ErrNormalization) {
		t.Fatalf("want ErrNormalization, got %v", err)
	}
	if len(chain.calls) != 0 {
		t.Fatalf("no chain call expected for an invalid name")
	}
}

func TestUniversalResolverTransportFailure(t *testing.T) {
	chain := newFakeUniversal(t)
	chain.failWith = errors.New("dial tcp: connection refused")
	r := ens.NewUniversalResolver(chain, universalAddr, discoveryAddr)
	_, err := r.Resolve(context.Background(), "alice.eth")
	if !errors.Is(err, assoccommon.ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}
}

func TestUniversalResolverFollowsOffchainLookup(t *testing.T) {
	chain := newFakeUniversal(t)
	chain.addrs[ens.Namehash("alice.base.eth")] = aliceAddr
	copy(chain.callback[:], crypto.Keccak256([]byte("resolveCallback(bytes,bytes)"))[:4])

	var gotMethods []string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethods = append(gotMethods, r.Method)
		var callData string
		switch r.Method {
		case http.MethodGet:
			parts := strings.Split(r.URL.Path, "/")
			callData = strings.TrimSuffix(parts[len(parts)-1], ".json")
			if parts[len(parts)-2] != strings.ToLower(universalAddr.Hex()) {
				t.Errorf("sender not substituted: %s", r.URL.Path)
			}
		case http.MethodPost:
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode gateway body: %s", err)
			}
			callData = body["data"]
		}
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		raw, err := hexutil.Decode(callData)
		if err != nil {
			t.Errorf("bad call data %q: %s", callData, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		out, err := chain.answer(raw)
		if err != nil {
			t.Errorf("answer: %s", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"data": hexutil.Encode(out)})
	}))
	defer gateway.Close()

	chain.offchain = []string{
		gateway.URL + "/broken/{sender}/{data}.json",
		gateway.URL + "/lookup/{sender}/{data}.json",
	}
	r := ens.NewUniversalResolver(chain, universalAddr, universalAddr, ens.WithHTTPClient(gateway.Client()))
	resolved, err := r.Resolve(context.Background(), "alice.base.eth")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if resolved.Address != aliceAddr {
		t.Fatalf("want %s, got %s", aliceAddr.Hex(), resolved.Address.Hex())
	}
	if len(gotMethods) != 2 || gotMethods[0] != http.MethodGet || gotMethods[1] != http.MethodGet {
		t.Fatalf("expected a failed then a successful GET, got %v", gotMethods)
	}

	gotMethods = nil
	chain.offchain = []string{gateway.URL + "/post"}
	if _, err := r.Resolve(context.Background(), "alice.base.eth"); err != nil {
		t.Fatalf("Resolve via POST gateway: %s", err)
	}
	if len(gotMethods) != 1 || gotMethods[0] != http.MethodPost {
		t.Fatalf("expected one POST, got %v", gotMethods)
	}
}

func TestOffchainLookupGatewayRejects(t *testing.T) {
	chain := newFakeUniversal(t)
	copy(chain.callback[:], crypto.Keccak256([]byte("resolveCallback(bytes,bytes)"))[:4])
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer gateway.Close()
	chain.offchain = []string{gateway.URL + "/{data}"}

	r := ens.NewUniversalResolver(chain, universalAddr, universalAddr, ens.WithHTTPClient(gateway.Client()))
	_, err := r.Resolve(context.Background(), "alice.base.eth")
	if !errors.Is(err, assoccommon.ErrTransport) {
		t.Fatalf("want ErrTransport for a rejected lookup, got %v", err)
	}
}
