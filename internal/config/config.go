package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Runner  RunnerConfig  `toml:"runner"`
	Scene   SceneConfig   `toml:"scene"`
	Logging LoggingConfig `toml:"logging"`
	Profile ProfileConfig `toml:"profile"`
}

type EngineConfig struct {
	InitialCapacity int      `toml:"initial_capacity"` // entities presized per pool
	Pools           []string `toml:"pools"`            // pool names, created in order
}

type RunnerConfig struct {
	TickRate time.Duration `toml:"tick_rate"` // 0 runs steps back to back
	Frames   int           `toml:"frames"`    // 0 runs until interrupted
}

type SceneConfig struct {
	Path string `toml:"path"` // optional YAML scene, empty for none
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem"
	Path string `toml:"path"`
}

// Load reads a TOML file over the defaults. A missing file is an error;
// use Default for a config-less run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			InitialCapacity: 1024,
			Pools:           []string{"input", "logic", "view"},
		},
		Runner: RunnerConfig{
			TickRate: 0,
			Frames:   3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}

func (c *Config) validate() error {
	if c.Engine.InitialCapacity < 0 {
		return fmt.Errorf("engine.initial_capacity must not be negative, got %d", c.Engine.InitialCapacity)
	}
	if len(c.Engine.Pools) == 0 {
		return fmt.Errorf("engine.pools must name at least one pool")
	}
	seen := make(map[string]bool, len(c.Engine.Pools))
	for _, name := range c.Engine.Pools {
		if name == "" || seen[name] {
			return fmt.Errorf("engine.pools: empty or duplicate pool name %q", name)
		}
		seen[name] = true
	}
	if c.Runner.TickRate < 0 {
		return fmt.Errorf("runner.tick_rate must not be negative, got %s", c.Runner.TickRate)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode must be cpu or mem, got %q", c.Profile.Mode)
	}
	return nil
}
