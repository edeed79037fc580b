package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Marshal renders the effective configuration as TOML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}
