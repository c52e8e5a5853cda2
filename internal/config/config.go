// Package config defines beadworker's configuration, loaded via viper from
// an optional beadworker.yaml plus BEADWORKER_-prefixed environment
// variables. Everything has a working default; the loop runs with no config
// file at all.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete beadworker configuration
type Config struct {
	Agent   AgentConfig   `mapstructure:"agent"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Loop    LoopConfig    `mapstructure:"loop"`
	Logging LoggingConfig `mapstructure:"logging"`
	Events  EventsConfig  `mapstructure:"events"`
}

// AgentConfig selects the external agent CLI
type AgentConfig struct {
	// Command is the agent executable (default: "gemini")
	Command string `mapstructure:"command"`
	// Model is the fixed model selector passed on every invocation
	Model string `mapstructure:"model"`
}

// TrackerConfig selects the external task tracker CLI
type TrackerConfig struct {
	// Command is the tracker executable (default: "bd")
	Command string `mapstructure:"command"`
}

// LoopConfig controls task selection and loop termination
type LoopConfig struct {
	// MaxPriority is the highest priority number still considered urgent
	// enough to act on; lower numbers are more urgent (default: 1)
	MaxPriority int `mapstructure:"max_priority"`
	// MaxTasks stops the loop cleanly after this many processed tasks;
	// 0 means run until the ready queue is exhausted
	MaxTasks int `mapstructure:"max_tasks"`
}

// LoggingConfig controls the structured debug log
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written; empty means stderr
	Dir string `mapstructure:"dir"`
}

// EventsConfig controls the per-run JSONL event log
type EventsConfig struct {
	// Dir is where run event logs are written; empty disables them
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Command: "gemini",
			Model:   "gemini-3-pro-preview",
		},
		Tracker: TrackerConfig{
			Command: "bd",
		},
		Loop: LoopConfig{
			MaxPriority: 1,
			MaxTasks:    0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers all default values with viper. Call before
// viper.ReadInConfig so defaults apply even without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("agent.command", defaults.Agent.Command)
	viper.SetDefault("agent.model", defaults.Agent.Model)
	viper.SetDefault("tracker.command", defaults.Tracker.Command)
	viper.SetDefault("loop.max_priority", defaults.Loop.MaxPriority)
	viper.SetDefault("loop.max_tasks", defaults.Loop.MaxTasks)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("events.dir", defaults.Events.Dir)
}

// Load reads the configuration from viper into a typed Config and
// validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the default configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "beadworker")
}
