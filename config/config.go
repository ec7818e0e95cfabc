package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/auvsim/core/factory"
	"github.com/kilianp07/auvsim/infra/mqtt"
)

// EnvPrefix prefixes environment overrides. AUV_MISSION__TARGET_DEPTH=3
// sets mission.target_depth.
const EnvPrefix = "AUV_"

type Config struct {
	Mission   MissionConfig          `json:"mission"`
	Battery   factory.ModuleConfig   `json:"battery"`
	Goal      GoalConfig             `json:"goal"`
	Observers []factory.ModuleConfig `json:"observers"`
	// MQTT enables the telemetry publisher when present.
	MQTT    *mqtt.Config  `json:"mqtt"`
	Metrics MetricsConfig `json:"metrics"`
	Logging LoggingConfig `json:"logging"`
	Sensors SensorsConfig `json:"sensors"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Mission.SetDefaults()
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
	c.Sensors.SetDefaults()
	if c.MQTT != nil {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Mission.Validate(); err != nil {
		return fmt.Errorf("mission: %w", err)
	}
	if err := c.Goal.Validate(); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Sensors.Validate(); err != nil {
		return fmt.Errorf("sensors: %w", err)
	}
	if c.MQTT != nil {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	for i, o := range c.Observers {
		if o.Type == "" {
			return fmt.Errorf("observers[%d]: type is required", i)
		}
	}
	return nil
}

// Load reads the configuration file at path, applies environment overrides,
// defaults and validation. An empty path loads defaults and environment
// only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
