package util_test

import (
	"testing"

	"github.com/tranvictor/assoc/ens"
	"github.com/tranvictor/assoc/networks"
	"github.com/tranvictor/assoc/util"
)

func TestEthReaderOverrides(t *testing.T) {
	r, err := util.EthReader(networks.BaseMainnet, []string{"http://127.0.0.1:8545", "http://127.0.0.1:8546"})
	if err != nil {
		t.Fatalf("EthReader() error = %v", err)
	}
	names := r.NodeNames()
	if len(names) != 2 || names[0] != "flag-node-1" {
		t.Errorf("NodeNames() = %v", names)
	}
}

func TestNameResolverByMode(t *testing.T) {
	r, err := util.EthReader(networks.EthereumMainnet, []string{"http://127.0.0.1:8545"})
	if err != nil {
		t.Fatal(err)
	}

	res, err := util.NameResolver(networks.EthereumMainnet, r, util.ResolverOverrides{}, nil, nil)
	if err != nil {
		t.Fatalf("NameResolver(mainnet) error = %v", err)
	}
	if _, ok := res.(*ens.UniversalResolver); !ok {
		t.Errorf("mainnet should use the universal resolver, got %T", res)
	}

	res, err = util.NameResolver(networks.BaseMainnet, r, util.ResolverOverrides{}, nil, nil)
	if err != nil {
		t.Fatalf("NameResolver(base) error = %v", err)
	}
	if _, ok := res.(*ens.DirectResolver); !ok {
		t.Errorf("base should use the direct resolver, got %T", res)
	}

	if _, err := util.NameResolver(networks.EthereumMainnet, r, util.ResolverOverrides{TextResolver: "nope"}, nil, nil); err == nil {
		t.Errorf("invalid override should fail")
	}
}
