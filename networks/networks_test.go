package networks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBuiltinNetworks(t *testing.T) {
	tests := []struct {
		name    string
		chainID uint64
		mode    ResolutionMode
	}{
		{"mainnet", 1, UniversalResolution},
		{"ethereum", 1, UniversalResolution},
		{"sepolia", 11155111, UniversalResolution},
		{"base", 8453, DirectResolution},
		{"base-sepolia", 84532, DirectResolution},
		{" Base ", 8453, DirectResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := GetNetwork(tt.name)
			if err != nil {
				t.Fatalf("GetNetwork() error = %v", err)
			}
			if n.GetChainID() != tt.chainID || n.GetResolutionMode() != tt.mode {
				t.Errorf("got chain %d mode %s", n.GetChainID(), n.GetResolutionMode())
			}
			if len(n.GetDefaultNodes()) == 0 {
				t.Errorf("network %s has no default nodes", n.GetName())
			}
		})
	}

	if _, err := GetNetwork("tomo"); !errors.Is(err, ErrNetworkNotFound) {
		t.Errorf("expected ErrNetworkNotFound, got %v", err)
	}
	if n, err := GetNetworkByID(8453); err != nil || n.GetName() != "base" {
		t.Errorf("GetNetworkByID(8453) = %v, %v", n, err)
	}
}

func TestMainnetResolvers(t *testing.T) {
	if got := EthereumMainnet.GetUniversalResolver(); got != common.HexToAddress("0xeEeEEEeE14D718C2B47D9923Deab1335E144EeEe") {
		t.Errorf("universal resolver = %s", got.Hex())
	}
	if got := EthereumMainnet.GetTextResolver(); got != common.HexToAddress("0x426fA03fB86E510d0Dd9F70335Cf102a98b10875") {
		t.Errorf("text resolver = %s", got.Hex())
	}
	if Sepolia.GetTextResolver() != Sepolia.GetUniversalResolver() {
		t.Errorf("sepolia text lookups should fall back to the universal resolver")
	}
}

func TestGetNodesHonoursVariable(t *testing.T) {
	t.Setenv("BASE_MAINNET_NODE", " https://my-node.example ")
	nodes := GetNodes(BaseMainnet)
	if nodes["custom-node"] != "https://my-node.example" {
		t.Errorf("custom node = %q", nodes["custom-node"])
	}
	if nodes["public-base"] == "" {
		t.Errorf("default nodes must be kept")
	}
	if _, ok := BaseMainnet.GetDefaultNodes()["custom-node"]; ok {
		t.Errorf("GetNodes must not mutate the network's defaults")
	}
}

func TestCustomNetworks(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("holesky.json", `{"name":"holesky","chain_id":17000,"node_variable_name":"HOLESKY_NODE","default_nodes":{"pn":"https://holesky.example"},"universal_resolver":"0xeEeEEEeE14D718C2B47D9923Deab1335E144EeEe"}`)
	write("broken.json", `{"name":"broken","resolution_mode":"direct"}`)
	write("notes.txt", "ignored")

	reg := newSupportedNetworks([]Network{EthereumMainnet}, dir)
	n, err := reg.getNetwork("holesky")
	if err != nil {
		t.Fatalf("custom network not loaded: %v", err)
	}
	if n.GetResolutionMode() != UniversalResolution || n.GetChainID() != 17000 {
		t.Errorf("unexpected custom network %+v", n)
	}
	if _, err := reg.getNetwork("broken"); err == nil {
		t.Errorf("invalid custom network should be skipped")
	}
	if got := reg.getSupportedNetworkNames(); len(got) != 3 {
		t.Errorf("names = %v", got)
	}
}

func TestNetworkJSONRoundTrip(t *testing.T) {
	content, err := BaseSepolia.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	n, err := NewNetworkFromJSON(content)
	if err != nil {
		t.Fatalf("NewNetworkFromJSON() error = %v", err)
	}
	if n.GetL2Resolver() != BaseSepolia.GetL2Resolver() || n.GetResolutionMode() != DirectResolution {
		t.Errorf("round trip lost resolver settings")
	}
}

func TestSetNetwork(t *testing.T) {
	if err := SetNetwork("base"); err != nil {
		t.Fatalf("SetNetwork() error = %v", err)
	}
	if CurrentNetwork().GetName() != "base" {
		t.Errorf("current network = %s", CurrentNetwork().GetName())
	}
	if err := SetNetwork("nope"); !errors.Is(err, ErrNetworkNotFound) {
		t.Errorf("expected ErrNetworkNotFound, got %v", err)
	}
	if CurrentNetwork().GetName() != "mainnet" {
		t.Errorf("unknown network should fall back to mainnet")
	}
}

func TestSaveNetworkIsLoadedBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "networks")
	custom, err := NewNetworkFromJSON([]byte(`{"name":"local","chain_id":31337,"resolution_mode":"direct","l2_resolver":"0x6533C94869D28fAA8dF77cc63f9e2b2D6Cf77eBA"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := saveNetwork(dir, custom); err != nil {
		t.Fatalf("saveNetwork() error = %v", err)
	}
	reg := newSupportedNetworks(nil, dir)
	n, err := reg.getNetworkByID(31337)
	if err != nil {
		t.Fatalf("saved network not loaded: %v", err)
	}
	if n.GetName() != "local" || n.GetL2Resolver() != custom.GetL2Resolver() {
		t.Errorf("loaded %s with resolver %s", n.GetName(), n.GetL2Resolver().Hex())
	}
}
