// Package config loads gpause settings from defaults, a YAML file and
// GPAUSE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gpause/manager"
	"gpause/process"

	"github.com/spf13/viper"
)

// Config is the full gpause configuration.
type Config struct {
	Denylist  DenylistConfig  `mapstructure:"denylist"`
	Inspector InspectorConfig `mapstructure:"inspector"`
	Window    WindowConfig    `mapstructure:"window"`
	Procfs    ProcfsConfig    `mapstructure:"procfs"`
}

// DenylistConfig holds the names that are never listed or paused.
type DenylistConfig struct {
	// Names replaces the built-in list when set
	Names []string `mapstructure:"names"`
	// Extra is added on top of Names
	Extra []string `mapstructure:"extra"`
}

// InspectorConfig controls process filtering.
type InspectorConfig struct {
	RequireWindow bool `mapstructure:"require_window"`
}

// WindowConfig is the window policy applied around pause and unpause.
type WindowConfig struct {
	OnPause  string `mapstructure:"on_pause"`
	OnResume string `mapstructure:"on_resume"`
}

// ProcfsConfig points the Linux backend at a procfs mount.
type ProcfsConfig struct {
	Root string `mapstructure:"root"`
}

// DenylistSet builds the immutable denylist.
func (c *Config) DenylistSet() process.Denylist {
	base := process.DefaultDenylist()
	if len(c.Denylist.Names) > 0 {
		base = process.NewDenylist(c.Denylist.Names...)
	}
	return base.With(c.Denylist.Extra...)
}

// Policy builds the manager window policy.
func (c *Config) Policy() manager.Policy {
	return manager.Policy{
		MinimizeOnPause: c.Window.OnPause == "minimize",
		RestoreOnResume: c.Window.OnResume == "restore",
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Window.OnPause {
	case "minimize", "none":
	default:
		return fmt.Errorf("window.on_pause: invalid value %q (want minimize or none)", c.Window.OnPause)
	}
	switch c.Window.OnResume {
	case "restore", "none":
	default:
		return fmt.Errorf("window.on_resume: invalid value %q (want restore or none)", c.Window.OnResume)
	}
	return nil
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (GPAUSE_*)
// 3. Config file (gpause.yaml in the current directory or ~/.config/gpause)
// 4. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix("GPAUSE")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName("gpause")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "gpause"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("denylist.names", []string{})
	l.v.SetDefault("denylist.extra", []string{})
	l.v.SetDefault("inspector.require_window", true)
	l.v.SetDefault("window.on_pause", "minimize")
	l.v.SetDefault("window.on_resume", "restore")
	l.v.SetDefault("procfs.root", "/proc")
}
