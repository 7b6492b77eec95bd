package flock

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Config is the flock.toml file shared by the CLI and the provision
// command: where the coordinator's API lives and which broker channel the
// session runs on.
type Config struct {
	Coordinator CoordinatorConfig `toml:"coordinator"`
	Broker      BrokerConfig      `toml:"broker"`
}

type CoordinatorConfig struct {
	URL     string `toml:"url"`
	Channel string `toml:"channel"`
}

type BrokerConfig struct {
	Address string `toml:"address"`
	QoS     int    `toml:"qos"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes the configuration back to disk.
func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
