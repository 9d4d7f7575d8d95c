package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type EngineConfig struct {
	Workers  int  `toml:"workers" validate:"min=1,max=256"`
	MaxDepth int  `toml:"max_depth" validate:"min=1"`
	Memoize  bool `toml:"memoize"`
}

type EqualityConfig struct {
	Mode          string            `toml:"mode" validate:"oneof=label structural"`
	ReferenceHops int               `toml:"reference_hops" validate:"min=0,max=16"`
	ByType        map[string]string `toml:"by_type" validate:"dive,oneof=label structural"`
}

type IgnoreConfig struct {
	Types         []string `toml:"types"`
	LabelPrefixes []string `toml:"label_prefixes"`
}

type PairingConfig struct {
	Mode string `toml:"mode" validate:"oneof=name basename index"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port" validate:"omitempty,numeric"`
}

type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Equality EqualityConfig `toml:"equality"`
	Ignore   IgnoreConfig   `toml:"ignore"`
	Pairing  PairingConfig  `toml:"pairing"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Server   ServerConfig   `toml:"server"`
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:  4,
			MaxDepth: 1024,
			Memoize:  true,
		},
		Equality: EqualityConfig{
			Mode:          "structural",
			ReferenceHops: 2,
		},
		Pairing: PairingConfig{
			Mode: "name",
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a TOML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values with environment variables when set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("EQUALITY_MODE"); v != "" {
		c.Equality.Mode = v
	}
	if v := os.Getenv("PAIRING_MODE"); v != "" {
		c.Pairing.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MATCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MATCH_WORKERS '%s': %w", v, err)
		}
		c.Engine.Workers = n
	}
	c.normalize()
	return c.Validate()
}

// normalize lower-cases the strategy modes so "Label" and "label" mean the
// same thing.
func (c *Config) normalize() {
	c.Equality.Mode = strings.ToLower(c.Equality.Mode)
	for tag, mode := range c.Equality.ByType {
		c.Equality.ByType[tag] = strings.ToLower(mode)
	}
	c.Pairing.Mode = strings.ToLower(c.Pairing.Mode)
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
