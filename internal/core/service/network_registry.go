package service

import (
	"sort"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

var avax = domain.NativeCurrency{Name: "AVAX", Symbol: "AVAX", Decimals: 18}

// builtinNetworks is the registry table shipped with the daemon.
var builtinNetworks = []domain.NetworkSpec{
	{
		ChainID:     43114,
		Name:        "Avalanche C-Chain",
		Supported:   true,
		Currency:    avax,
		RPCURLs:     []string{"https://api.avax.network/ext/bc/C/rpc"},
		ExplorerURL: "https://snowtrace.io",
	},
	{
		ChainID:     43113,
		Name:        "Avalanche Fuji Testnet",
		Supported:   true,
		Currency:    avax,
		RPCURLs:     []string{"https://api.avax-test.network/ext/bc/C/rpc"},
		ExplorerURL: "https://testnet.snowtrace.io",
	},
	{
		ChainID:     1,
		Name:        "Ethereum Mainnet",
		Supported:   false,
		Currency:    domain.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		ExplorerURL: "https://etherscan.io",
	},
}

// NetworkRegistry maps chain ids to network records. It is read-only after construction.
type NetworkRegistry struct {
	entries map[int64]domain.NetworkSpec
}

// NewNetworkRegistry builds the registry from the built-in table, with overlay
// entries added or replacing built-ins by chain id.
func NewNetworkRegistry(overlay ...domain.NetworkSpec) *NetworkRegistry {
	r := &NetworkRegistry{entries: make(map[int64]domain.NetworkSpec, len(builtinNetworks)+len(overlay))}
	for _, n := range builtinNetworks {
		r.entries[n.ChainID] = n
	}
	for _, n := range overlay {
		r.entries[n.ChainID] = n
	}
	return r
}

// Lookup returns the network for chainID. Unknown ids yield an unsupported
// placeholder rather than an error.
func (r *NetworkRegistry) Lookup(chainID int64) domain.Network {
	if n, ok := r.entries[chainID]; ok {
		return n.Network()
	}
	return domain.UnknownNetwork(chainID)
}

// Spec returns the full registry entry for chainID.
func (r *NetworkRegistry) Spec(chainID int64) (domain.NetworkSpec, bool) {
	n, ok := r.entries[chainID]
	return n, ok
}

// All returns every entry ordered by chain id.
func (r *NetworkRegistry) All() []domain.NetworkSpec {
	out := make([]domain.NetworkSpec, 0, len(r.entries))
	for _, n := range r.entries {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}
