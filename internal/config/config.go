// Package config loads TOML configuration for the panel service and the
// slicectl client.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// SliceByConfig declares one sliceby grouping to register at startup.
type SliceByConfig struct {
	ID        string `toml:"id"`
	Dimension string `toml:"dimension"`
}

// AggregationConfig declares one aggregation to register at startup.
type AggregationConfig struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Measure string `toml:"measure"`
}

// PanelConfig configures the paneld service.
type PanelConfig struct {
	Addr         string              `toml:"addr"`
	Dataset      string              `toml:"dataset"`
	AuthToken    string              `toml:"auth_token"`
	SliceBys     []SliceByConfig     `toml:"slicebys"`
	Aggregations []AggregationConfig `toml:"aggregations"`
}

// ClientConfig configures slicectl.
type ClientConfig struct {
	APIURL    string `toml:"api_url"`
	AuthToken string `toml:"auth_token"`
}

// LoadPanelConfig reads and validates a paneld config file. Missing addr
// defaults to the panel's usual local port.
func LoadPanelConfig(path string) (PanelConfig, error) {
	var cfg PanelConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return PanelConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:7860"
	}
	if err := ValidatePanelConfig(cfg); err != nil {
		return PanelConfig{}, err
	}
	return cfg, nil
}

// LoadClientConfig reads and validates a slicectl config file.
func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return ClientConfig{}, fmt.Errorf("client config missing api_url")
	}
	return cfg, nil
}

// ValidatePanelConfig checks required fields on a panel config.
func ValidatePanelConfig(cfg PanelConfig) error {
	for i, sb := range cfg.SliceBys {
		if strings.TrimSpace(sb.ID) == "" {
			return fmt.Errorf("sliceby[%d] missing id", i)
		}
		if strings.TrimSpace(sb.Dimension) == "" {
			return fmt.Errorf("sliceby[%d] missing dimension", i)
		}
	}
	for i, agg := range cfg.Aggregations {
		if strings.TrimSpace(agg.ID) == "" {
			return fmt.Errorf("aggregation[%d] missing id", i)
		}
		if strings.TrimSpace(agg.Name) == "" {
			return fmt.Errorf("aggregation[%d] missing name", i)
		}
		if strings.TrimSpace(agg.Kind) == "" {
			return fmt.Errorf("aggregation[%d] missing kind", i)
		}
	}
	return nil
}
