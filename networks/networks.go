package networks

import (
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

// NetworkString is bound to the --network flag.
var NetworkString string

func CurrentNetwork() Network {
	mu.Lock()
	nw := cachedNetwork
	mu.Unlock()
	if nw != nil {
		return nw
	}
	if err := SetNetwork(NetworkString); err != nil {
		log.Warn("Unknown network, falling back to mainnet", "network", NetworkString)
	}
	mu.Lock()
	defer mu.Unlock()
	return cachedNetwork
}

// SetNetwork switches the current network. An unknown name selects mainnet
// and returns ErrNetworkNotFound.
func SetNetwork(networkStr string) error {
	mu.Lock()
	defer mu.Unlock()

	inited := cachedNetwork != nil
	nw, err := GetNetwork(networkStr)
	if err != nil {
		cachedNetwork = EthereumMainnet
		return err
	}
	cachedNetwork = nw
	if inited {
		log.Debug("Switched network", "network", nw.GetName())
	} else {
		log.Debug("Network selected", "network", nw.GetName())
	}
	return nil
}
