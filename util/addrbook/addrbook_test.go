package addrbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var vitalik = common.HexToAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")

func TestMapIgnoresCase(t *testing.T) {
	for _, key := range []string{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045", "0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045"} {
		m := Map{key: "vitalik.eth"}
		if got := m.Resolve(vitalik); got.Desc != "vitalik.eth" {
			t.Errorf("key %s: Desc = %q", key, got.Desc)
		}
	}
	if got := (Map{}).Resolve(vitalik); got.Known() {
		t.Errorf("empty map should not know %s", got.Address)
	}
}

func TestChain(t *testing.T) {
	c := Chain{nil, Map{}, Map{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "second"}}
	if got := c.Resolve(vitalik); got.Desc != "second" {
		t.Errorf("Desc = %q", got.Desc)
	}
	if got := c.Resolve(common.Address{}); got.Desc != "unknown" {
		t.Errorf("Desc = %q", got.Desc)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	if err := os.WriteFile(path, []byte(`{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045":"vb"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Resolve(vitalik).Desc != "vb" {
		t.Errorf("loaded book does not label vitalik")
	}

	if m, err := Load(filepath.Join(dir, "missing.json")); err != nil || len(m) != 0 {
		t.Errorf("missing file: %v, %v", m, err)
	}
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("["), 0o600)
	if _, err := Load(bad); err == nil {
		t.Errorf("expected a parse error")
	}
}
