// Package config maps viper settings onto the typed configuration the
// program runs with.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/prefs"
)

// BridgeConfig locates the host process that serves the bridge.
type BridgeConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Timeout of zero means calls are never cut short.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// StateConfig selects where preferences and history persist.
type StateConfig struct {
	Backend  string `mapstructure:"backend" yaml:"backend"`
	Path     string `mapstructure:"path" yaml:"path"`
	RedisURL string `mapstructure:"redis_url" yaml:"redis_url,omitempty"`
}

// SearchConfig holds the search form defaults.
type SearchConfig struct {
	DefaultSource         string `mapstructure:"default_source" yaml:"default_source"`
	DefaultType           string `mapstructure:"default_type" yaml:"default_type"`
	DefaultMaxResults     int    `mapstructure:"default_max_results" yaml:"default_max_results"`
	DefaultFromYearOffset int    `mapstructure:"default_from_year_offset" yaml:"default_from_year_offset"`
}

// VizConfig tunes the render pipeline.
type VizConfig struct {
	MinFragmentLength int      `mapstructure:"min_fragment_length" yaml:"min_fragment_length"`
	Capabilities      []string `mapstructure:"capabilities" yaml:"capabilities"`
	OutputDir         string   `mapstructure:"output_dir" yaml:"output_dir"`
}

type UIConfig struct {
	AltScreen bool `mapstructure:"alt_screen" yaml:"alt_screen"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Config is the effective configuration.
type Config struct {
	Bridge BridgeConfig `mapstructure:"bridge" yaml:"bridge"`
	State  StateConfig  `mapstructure:"state" yaml:"state"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Viz    VizConfig    `mapstructure:"viz" yaml:"viz"`
	UI     UIConfig     `mapstructure:"ui" yaml:"ui"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers every key so env overrides apply on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("bridge.endpoint", bridge.DefaultEndpoint)
	v.SetDefault("bridge.timeout", time.Duration(0))
	v.SetDefault("state.backend", prefs.BackendFile)
	v.SetDefault("state.path", "")
	v.SetDefault("state.redis_url", "")
	v.SetDefault("search.default_source", "all")
	v.SetDefault("search.default_type", "all")
	v.SetDefault("search.default_max_results", 300)
	v.SetDefault("search.default_from_year_offset", 3)
	v.SetDefault("viz.min_fragment_length", 100)
	v.SetDefault("viz.capabilities", []string{"plotly"})
	v.SetDefault("viz.output_dir", "")
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// BindEnv makes PAPERLENS_BRIDGE_ENDPOINT and friends override keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PAPERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v, fills derived paths and validates the result.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths() error {
	if c.Viz.OutputDir != "" && c.Log.File != "" {
		return nil
	}
	dir, err := prefs.DefaultDir()
	if err != nil {
		return err
	}
	if c.Viz.OutputDir == "" {
		c.Viz.OutputDir = filepath.Join(dir, "dashboards")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "paperlens.log")
	}
	return nil
}

// Validate checks values the rest of the program assumes are sane.
func (c Config) Validate() error {
	switch c.State.Backend {
	case prefs.BackendMemory, prefs.BackendFile, prefs.BackendSQLite, prefs.BackendRedis:
	default:
		return fmt.Errorf("state.backend: unknown backend %q", c.State.Backend)
	}
	if c.State.Backend == prefs.BackendRedis && c.State.RedisURL == "" {
		return fmt.Errorf("state.redis_url is required for the redis backend")
	}
	if !contains(bridge.Sources, c.Search.DefaultSource) {
		return fmt.Errorf("search.default_source: %q is not one of %s", c.Search.DefaultSource, strings.Join(bridge.Sources, ", "))
	}
	if !contains(bridge.SearchTypes, c.Search.DefaultType) {
		return fmt.Errorf("search.default_type: %q is not one of %s", c.Search.DefaultType, strings.Join(bridge.SearchTypes, ", "))
	}
	if c.Search.DefaultMaxResults < 10 || c.Search.DefaultMaxResults > 1000 {
		return fmt.Errorf("search.default_max_results: %d is outside 10-1000", c.Search.DefaultMaxResults)
	}
	if c.Search.DefaultFromYearOffset < 0 {
		return fmt.Errorf("search.default_from_year_offset must not be negative")
	}
	if c.Bridge.Timeout < 0 {
		return fmt.Errorf("bridge.timeout must not be negative")
	}
	return nil
}

// DefaultFromYear is the from-year the search form starts with.
func (c Config) DefaultFromYear(now time.Time) int {
	return now.Year() - c.Search.DefaultFromYearOffset
}

// PrefsConfig adapts the state section for prefs.Open.
func (c Config) PrefsConfig() prefs.Config {
	return prefs.Config{Backend: c.State.Backend, Path: c.State.Path, RedisURL: c.State.RedisURL}
}

// BridgeClientConfig adapts the bridge section for bridge.New.
func (c Config) BridgeClientConfig() bridge.Config {
	return bridge.Config{Endpoint: c.Bridge.Endpoint, Timeout: c.Bridge.Timeout}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
