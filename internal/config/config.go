// Package config defines the Trellis configuration surface and its
// viper-backed loading. Defaults are registered up front so every setting
// resolves even without a config file; values can be overridden by a yaml
// config file, TRELLIS_* environment variables, or command flags bound by
// the cmd layer.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config represents the complete Trellis configuration
type Config struct {
	Validate ValidateConfig `mapstructure:"validate"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

// ValidateConfig controls the validation engine and its worker pool
type ValidateConfig struct {
	// Workers is the worker-pool size for per-document validation.
	// 0 means one worker per host CPU.
	Workers int `mapstructure:"workers"`
	// MinFilesForPool is the file count below which pooling is disabled
	// and documents are validated on a single worker.
	MinFilesForPool int `mapstructure:"min_files_for_pool"`
	// Strict promotes hierarchy-consistency warnings to blocking errors.
	Strict bool `mapstructure:"strict"`
}

// DispatchConfig controls ranking and selection defaults
type DispatchConfig struct {
	// Count is the default number of ready tasks to return.
	Count int `mapstructure:"count"`
	// Parallel is the default parallel-selection count (0 = no conflict
	// filtering, plain top-Count listing).
	Parallel int `mapstructure:"parallel"`
	// Executor is the preferred executor tier ("" = no preference).
	Executor string `mapstructure:"executor"`
	// IncludeBlocked includes tasks carrying a blocked reason.
	IncludeBlocked bool `mapstructure:"include_blocked"`
	// IdeaAsReady additionally treats idea-state tasks as ready, for
	// ancestor-promotion flows.
	IdeaAsReady bool `mapstructure:"idea_as_ready"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Dir is where trellis.log is written ("" = stderr).
	Dir string `mapstructure:"dir"`
}

// PathsConfig controls filesystem locations
type PathsConfig struct {
	// TaskDir is the root directory holding the lifecycle buckets.
	TaskDir string `mapstructure:"task_dir"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Validate: ValidateConfig{
			Workers:         runtime.NumCPU(),
			MinFilesForPool: 8,
			Strict:          false,
		},
		Dispatch: DispatchConfig{
			Count:          5,
			Parallel:       0,
			Executor:       "",
			IncludeBlocked: false,
			IdeaAsReady:    false,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Paths: PathsConfig{
			TaskDir: ".",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("validate.workers", defaults.Validate.Workers)
	viper.SetDefault("validate.min_files_for_pool", defaults.Validate.MinFilesForPool)
	viper.SetDefault("validate.strict", defaults.Validate.Strict)

	viper.SetDefault("dispatch.count", defaults.Dispatch.Count)
	viper.SetDefault("dispatch.parallel", defaults.Dispatch.Parallel)
	viper.SetDefault("dispatch.executor", defaults.Dispatch.Executor)
	viper.SetDefault("dispatch.include_blocked", defaults.Dispatch.IncludeBlocked)
	viper.SetDefault("dispatch.idea_as_ready", defaults.Dispatch.IdeaAsReady)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("paths.task_dir", defaults.Paths.TaskDir)
}

// Load unmarshals the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate.validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	if errs := cfg.Dispatch.validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	if errs := cfg.Logging.validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for the trellis config file.
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trellis")
	}
	// Fall back to ~/.config/trellis
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trellis"
	}
	return filepath.Join(home, ".config", "trellis")
}
