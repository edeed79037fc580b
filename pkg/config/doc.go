// Package config handles configuration management for devstrap.
// It supports loading configuration from multiple sources including
// the embedded defaults, a TOML or YAML user file, environment variables,
// and command-line flags.
package config
