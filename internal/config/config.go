// Package config provides configuration types, defaults, and persistence for kizuna.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/edwinsyarief/kizuna/ontology"
)

// EnvPrefix prefixes every environment override, e.g. KIZUNA_STRESS_SEED.
const EnvPrefix = "KIZUNA"

// ErrInvalidCapacity is returned for negative arena capacities.
var ErrInvalidCapacity = errors.New("invalid capacity")

// Config is the root configuration.
type Config struct {
	LogLevel   string         `mapstructure:"log_level" yaml:"log_level"`
	Capacities map[string]int `mapstructure:"capacities" yaml:"capacities"` // per datatype, 0 = default
	Stress     StressConfig   `mapstructure:"stress" yaml:"stress"`
}

// StressConfig drives the randomized workload.
type StressConfig struct {
	Seed       uint64 `mapstructure:"seed" yaml:"seed"`
	Operations int    `mapstructure:"operations" yaml:"operations"`
	Universes  int    `mapstructure:"universes" yaml:"universes"`
	CheckEvery int    `mapstructure:"check_every" yaml:"check_every"` // invariant check interval, 0 = only at the end
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	caps := make(map[string]int)
	for d, n := range ontology.DefaultCapacities() {
		caps[d.String()] = n
	}
	return Config{
		LogLevel:   "info",
		Capacities: caps,
		Stress: StressConfig{
			Seed:       1,
			Operations: 10000,
			Universes:  1,
			CheckEvery: 500,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	for name, n := range d.Capacities {
		v.SetDefault("capacities."+name, n)
	}
	v.SetDefault("stress.seed", d.Stress.Seed)
	v.SetDefault("stress.operations", d.Stress.Operations)
	v.SetDefault("stress.universes", d.Stress.Universes)
	v.SetDefault("stress.check_every", d.Stress.CheckEvery)
}

// NewViper returns a viper instance carrying the defaults and environment
// bindings. Callers may bind flags to it before calling Decode.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the capacities, the stress parameters and the log level.
func (c Config) Validate() error {
	if _, err := c.ArenaCapacities(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Stress.Operations < 0 {
		return fmt.Errorf("stress.operations: must not be negative, got %d", c.Stress.Operations)
	}
	if c.Stress.Universes < 1 {
		return fmt.Errorf("stress.universes: at least one universe is required, got %d", c.Stress.Universes)
	}
	if c.Stress.CheckEvery < 0 {
		return fmt.Errorf("stress.check_every: must not be negative, got %d", c.Stress.CheckEvery)
	}
	return nil
}

// ArenaCapacities converts the capacity table to ontology capacities.
func (c Config) ArenaCapacities() (ontology.Capacities, error) {
	caps := make(ontology.Capacities, len(c.Capacities))
	for name, n := range c.Capacities {
		d, err := ontology.ParseDatatype(name)
		if err != nil {
			return nil, fmt.Errorf("capacities: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("capacities.%s = %d: %w", name, n, ErrInvalidCapacity)
		}
		caps[d] = n
	}
	return caps, nil
}

// Level parses the configured log level. An empty level means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	data, err := Defaults().Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
