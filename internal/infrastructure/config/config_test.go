package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadNetworks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
networks:
  - chain_id: 31337
    name: Local Devnet
    supported: true
    currency: {name: Ether, symbol: ETH, decimals: 18}
    rpc_urls: [http://127.0.0.1:8545]
`), 0o600))

	nets, err := LoadNetworks(path)
	require.NoError(t, err)
	require.Len(t, nets, 1)
	require.Equal(t, int64(31337), nets[0].ChainID)
	require.Equal(t, "ETH", nets[0].Currency.Symbol)
	require.True(t, nets[0].CanAdd())
}

func TestLoadNetworks_EmptyPath(t *testing.T) {
	nets, err := LoadNetworks("")
	require.NoError(t, err)
	require.Nil(t, nets)
}

func TestLoadNetworks_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks:\n  - name: Nameless\n"), 0o600))

	_, err := LoadNetworks(path)
	require.Error(t, err)
}
