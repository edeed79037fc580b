package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config
const EnvPrefix = "DEVSTRAP_"

// DefaultBackupKeep is used when dotfiles.backup.keep is zero
const DefaultBackupKeep = 10

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit config path (--config). It must exist.
	ConfigFile string

	// Paths resolves the default config file and directory defaults
	Paths paths.Paths

	// Overrides are dotted keys applied last, typically from CLI flags
	Overrides map[string]interface{}
}

// Load builds the configuration from, in increasing priority: the embedded
// defaults, the user config file, DEVSTRAP_* environment variables and
// explicit overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. User config file
	configPath, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit && opts.Paths != nil {
		configPath = opts.Paths.ConfigFile()
	}
	if configPath != "" {
		configPath = paths.ExpandHome(configPath)
		if _, err := os.Stat(configPath); err == nil {
			parser, err := parserFor(configPath)
			if err != nil {
				return nil, err
			}
			if err := k.Load(file.Provider(configPath), parser); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	postProcess(cfg, opts.Paths)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the embedded defaults with directory defaults applied
func Default(p paths.Paths) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	postProcess(cfg, p)
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", path)
	}
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// postProcess fills directory defaults and expands ~ in configured paths
func postProcess(cfg *Config, p paths.Paths) {
	if cfg.Repo.Ref == "" {
		cfg.Repo.Ref = "main"
	}
	if cfg.Repo.Dir == "" && p != nil {
		cfg.Repo.Dir = p.RepoDir()
	}
	cfg.Repo.Dir = paths.ExpandHome(cfg.Repo.Dir)

	if cfg.Dotfiles.Source == "" {
		cfg.Dotfiles.Source = cfg.Repo.Dir
	}
	cfg.Dotfiles.Source = paths.ExpandHome(cfg.Dotfiles.Source)

	if cfg.Dotfiles.Backup.Keep == 0 {
		cfg.Dotfiles.Backup.Keep = DefaultBackupKeep
	}

	if cfg.MCP.Dir == "" && p != nil {
		cfg.MCP.Dir = p.MCPDir()
	}
	cfg.MCP.Dir = paths.ExpandHome(cfg.MCP.Dir)
	if cfg.MCP.Name == "" {
		cfg.MCP.Name = "devstrap-mcp-servers"
	}
	for i := range cfg.MCP.Servers {
		if cfg.MCP.Servers[i].Version == "" {
			cfg.MCP.Servers[i].Version = "latest"
		}
		if cfg.MCP.Servers[i].Name == "" {
			cfg.MCP.Servers[i].Name = cfg.MCP.Servers[i].Package
		}
	}

	if cfg.Vars == nil {
		cfg.Vars = map[string]string{}
	}
}
