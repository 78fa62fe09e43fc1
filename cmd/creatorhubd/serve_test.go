package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/c2developers/creatorhub/internal/infrastructure/db/memory"
	"github.com/c2developers/creatorhub/internal/infrastructure/db/sqlite"
	"github.com/c2developers/creatorhub/internal/infrastructure/provider"
	"github.com/c2developers/creatorhub/internal/pkg/config"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}})
	require.NoError(t, err)
	require.IsType(t, &memory.Store{}, s)
	closeFn()

	path := filepath.Join(t.TempDir(), "session.db")
	s, closeFn, err = openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageSQLite, SQLitePath: path}})
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, s)
	closeFn()

	_, _, err = openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: "etcd"}})
	require.Error(t, err)
}

func TestBindProviders(t *testing.T) {
	host := provider.NewHost(zerolog.Nop())
	defer host.Close()

	require.NoError(t, bindProviders(host, config.ProviderConfig{PrimaryURL: "http://127.0.0.1:8545"}))
	require.Equal(t, []string{provider.BindingAvalanche}, host.Names())

	require.Error(t, bindProviders(host, config.ProviderConfig{SecondaryURL: "ws://127.0.0.1:8546"}))
}

func TestNetworksList(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"networks", "list"})
	t.Setenv("NETWORKS_FILE", "")

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.True(t, strings.Contains(out.String(), "Avalanche C-Chain"), out.String())
	require.True(t, strings.Contains(out.String(), "0xa86a"), out.String())
}

func TestNetworksList_OverlayFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	overlay := "networks:\n  - chain_id: 31337\n    name: Local Devnet\n    supported: true\n"
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))
	t.Setenv("NETWORKS_FILE", path)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"networks", "list", "--json"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "Local Devnet")
}
