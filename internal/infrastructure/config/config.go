// Package config loads file-based settings that do not fit in environment
// variables, such as the network registry overlay.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

type networksFile struct {
	Networks []domain.NetworkSpec `yaml:"networks"`
}

// LoadNetworks reads a YAML overlay of network specs. An empty path yields no overlay.
//
//	networks:
//	  - chain_id: 31337
//	    name: Local Devnet
//	    supported: true
//	    currency: {name: Ether, symbol: ETH, decimals: 18}
//	    rpc_urls: [http://127.0.0.1:8545]
func LoadNetworks(path string) ([]domain.NetworkSpec, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read networks file: %w", err)
	}

	var f networksFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse networks file %s: %w", path, err)
	}
	for i, n := range f.Networks {
		if n.ChainID <= 0 {
			return nil, fmt.Errorf("networks file %s: entry %d: chain_id must be positive", path, i)
		}
		if n.Name == "" {
			return nil, fmt.Errorf("networks file %s: chain %d: name is required", path, n.ChainID)
		}
	}
	return f.Networks, nil
}
