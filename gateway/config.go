package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jvillano/hookgate/plugins/logging"
	"github.com/jvillano/hookgate/store"
)

// envPrefix namespaces the environment overrides, e.g. HOOKGATE_STORE_BACKEND.
const envPrefix = "HOOKGATE_"

// defaultConfig is the lowest-precedence layer.
var defaultConfig = []byte(`
store:
  backend: memory
log:
  level: info
  format: console
  output: stdout
`)

// StoreConfig selects and parameterizes the storage backend.
type StoreConfig struct {
	// Backend is one of "memory", "bolt", "redis".
	Backend string `koanf:"backend"`

	// Path is the database file for the bolt backend.
	Path string `koanf:"path"`

	// Addr is the server address for the redis backend.
	Addr string `koanf:"addr"`
}

// Config wires the gateway's collaborators.
type Config struct {
	Store StoreConfig    `koanf:"store"`
	Log   logging.Config `koanf:"log"`
}

// LoadConfig loads configuration in precedence order: defaults, then the
// YAML file at path (skipped when path is empty or the file does not exist),
// then HOOKGATE_* environment variables. Variables map by underscore:
//
//	HOOKGATE_STORE_BACKEND -> store.backend
//	HOOKGATE_LOG_LEVEL     -> log.level
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), koanfyaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := k.Load(rawbytes.Provider(content), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// OpenStore opens the configured storage backend.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case "", "memory":
		return store.NewMemory(), nil
	case "bolt":
		if c.Store.Path == "" {
			return nil, fmt.Errorf("gateway: bolt backend requires store.path")
		}
		return store.NewBolt(c.Store.Path)
	case "redis":
		if c.Store.Addr == "" {
			return nil, fmt.Errorf("gateway: redis backend requires store.addr")
		}
		return store.NewRedis(ctx, c.Store.Addr)
	default:
		return nil, fmt.Errorf("gateway: unknown store backend %q", c.Store.Backend)
	}
}
