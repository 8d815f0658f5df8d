package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvillano/hookgate/store"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: bolt
  path: /tmp/hookgate.db
log:
  level: debug
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.Equal(t, "/tmp/hookgate.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset file fields keep defaults")
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: bolt\n"), 0o600))

	t.Setenv("HOOKGATE_STORE_BACKEND", "redis")
	t.Setenv("HOOKGATE_STORE_ADDR", "localhost:6379")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.Addr)
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "memory"}}
	s, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &store.Memory{}, s)
}

func TestOpenStore_Bolt(t *testing.T) {
	cfg := &Config{Store: StoreConfig{
		Backend: "bolt",
		Path:    filepath.Join(t.TempDir(), "store.db"),
	}}
	s, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &store.Bolt{}, s)
}

func TestOpenStore_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  StoreConfig
	}{
		{name: "bolt without path", cfg: StoreConfig{Backend: "bolt"}},
		{name: "redis without addr", cfg: StoreConfig{Backend: "redis"}},
		{name: "unknown backend", cfg: StoreConfig{Backend: "cassandra"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Store: tc.cfg}
			_, err := cfg.OpenStore(context.Background())
			assert.Error(t, err)
		})
	}
}
