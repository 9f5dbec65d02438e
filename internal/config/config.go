// Package config loads application settings with viper and the YAML unit
// catalogs and scenarios the simulation is built from.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (SKIRMISH_SIM_SEED).
const EnvPrefix = "SKIRMISH"

type SimConfig struct {
	TPS   int   `mapstructure:"tps"`
	Seed  int64 `mapstructure:"seed"`
	Ticks int   `mapstructure:"ticks"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the resolved application configuration.
type Config struct {
	Sim      SimConfig `mapstructure:"sim"`
	Scenario string    `mapstructure:"scenario"`
	Catalog  string    `mapstructure:"catalog"`
	Log      LogConfig `mapstructure:"log"`
}

// SetDefaults registers default values on the global viper instance.
func SetDefaults() {
	viper.SetDefault("sim.tps", 60)
	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.ticks", 3600)

	viper.SetDefault("scenario", "")
	viper.SetDefault("catalog", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// Load reads configuration from path (optional; empty means defaults and
// environment only) and returns the validated result.
func Load(path string) (*Config, error) {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the runners cannot use.
func (c *Config) Validate() error {
	if c.Sim.TPS <= 0 {
		return fmt.Errorf("sim.tps must be positive, got %d", c.Sim.TPS)
	}
	if c.Sim.Ticks <= 0 {
		return fmt.Errorf("sim.ticks must be positive, got %d", c.Sim.Ticks)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Timestep is the fixed tick length in seconds.
func (c *Config) Timestep() float64 {
	return 1.0 / float64(c.Sim.TPS)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}
