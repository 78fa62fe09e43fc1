package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownNetworkName is reported for chain ids missing from the registry.
const UnknownNetworkName = "Unknown Network"

// Network identifies the chain a wallet session is on.
type Network struct {
	ChainID   int64  `json:"chain_id" bson:"chain_id"`
	Name      string `json:"name" bson:"name"`
	Supported bool   `json:"supported" bson:"supported"`
}

// UnknownNetwork returns the placeholder record for an unregistered chain.
func UnknownNetwork(chainID int64) Network {
	return Network{ChainID: chainID, Name: UnknownNetworkName}
}

// NativeCurrency describes the gas token of a chain.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}

// NetworkSpec is a registry entry, including the metadata needed to ask a
// provider to add the chain.
type NetworkSpec struct {
	ChainID     int64          `json:"chain_id" yaml:"chain_id"`
	Name        string         `json:"name" yaml:"name"`
	Supported   bool           `json:"supported" yaml:"supported"`
	Currency    NativeCurrency `json:"currency" yaml:"currency"`
	RPCURLs     []string       `json:"rpc_urls,omitempty" yaml:"rpc_urls"`
	ExplorerURL string         `json:"explorer_url,omitempty" yaml:"explorer_url"`
}

// Network returns the value carried on a session.
func (s NetworkSpec) Network() Network {
	return Network{ChainID: s.ChainID, Name: s.Name, Supported: s.Supported}
}

// HexChainID returns the chain id in the 0x-prefixed form providers expect.
func (s NetworkSpec) HexChainID() string {
	return HexChainID(s.ChainID)
}

// CanAdd reports whether the entry carries enough metadata for wallet_addEthereumChain.
func (s NetworkSpec) CanAdd() bool {
	return len(s.RPCURLs) > 0 && s.Currency.Symbol != ""
}

// AddChainParams builds the wallet_addEthereumChain parameter object.
func (s NetworkSpec) AddChainParams() map[string]any {
	params := map[string]any{
		"chainId":   s.HexChainID(),
		"chainName": s.Name,
		"nativeCurrency": map[string]any{
			"name":     s.Currency.Name,
			"symbol":   s.Currency.Symbol,
			"decimals": s.Currency.Decimals,
		},
		"rpcUrls": s.RPCURLs,
	}
	if s.ExplorerURL != "" {
		params["blockExplorerUrls"] = []string{s.ExplorerURL}
	}
	return params
}

// HexChainID formats a chain id as a 0x-prefixed lowercase hex string.
func HexChainID(chainID int64) string {
	return "0x" + strconv.FormatInt(chainID, 16)
}

// ParseChainID parses a chain id in hex (0x-prefixed) or decimal form.
func ParseChainID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	var (
		id  int64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		id, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("parse chain id %q: %w", s, err)
	}
	return id, nil
}
