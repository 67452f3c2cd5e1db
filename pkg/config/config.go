// Package config loads the claudeguard configuration tree through viper.
//
// Configuration is read from ./.claudeguard/config.yaml or
// $HOME/.claudeguard/config.yaml, with CLAUDEGUARD_* environment variables
// layered on top. Named profiles provide partial overlays over the base
// configuration so a repository can switch between, say, a strict and a
// relaxed guard posture with a single key.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Defaults applied in Load when the corresponding keys are unset.
var (
	DefaultAllowedBranches = []string{"main", "master", "develop", "dev"}
	DefaultFormatTimeout   = 30 * time.Second
)

// Config is the full claudeguard configuration tree.
type Config struct {
	LogLevel  string                   `mapstructure:"log_level"`
	LogFormat string                   `mapstructure:"log_format"`
	Hooks     HooksConfig              `mapstructure:"hooks"`
	Skills    SkillsConfig             `mapstructure:"skills"`
	Audit     AuditConfig              `mapstructure:"audit"`
	Profile   string                   `mapstructure:"profile"`
	Profiles  map[string]ProfileConfig `mapstructure:"profiles"`
}

// HooksConfig tunes the individual hook handlers.
type HooksConfig struct {
	// Disabled lists hook names that `hook run` skips entirely.
	Disabled []string      `mapstructure:"disabled"`
	Branch   BranchConfig  `mapstructure:"branch"`
	Protect  ProtectConfig `mapstructure:"protect"`
	Format   FormatConfig  `mapstructure:"format"`
}

// BranchConfig configures the branch-prefix guard. The guard stays inactive
// while RequiredPrefix is empty.
type BranchConfig struct {
	RequiredPrefix  string   `mapstructure:"required_prefix"`
	AllowedBranches []string `mapstructure:"allowed_branches"`
}

// ProtectConfig extends the builtin protected-file table with
// repository-specific patterns.
type ProtectConfig struct {
	ExtraPatterns []string `mapstructure:"extra_patterns"`
}

// FormatConfig tunes the auto-format hook. Extra maps a file extension
// (".tf") to a formatter command line, overriding or extending the builtin
// table.
type FormatConfig struct {
	Timeout time.Duration     `mapstructure:"timeout"`
	Extra   map[string]string `mapstructure:"extra"`
}

// SkillsConfig lists extra skill directories searched after the defaults.
type SkillsConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// AuditConfig controls the decision audit log. Path defaults to
// ~/.claudeguard/audit.jsonl when empty.
type AuditConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	Path     string `mapstructure:"path"`
}

// ProfileConfig is a partial configuration overlay keyed like Config.
type ProfileConfig map[string]any

// Init wires viper's environment and config file sources. Called once from
// the root command's init.
func Init() {
	viper.SetEnvPrefix("CLAUDEGUARD")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./.claudeguard")
	viper.AddConfigPath("$HOME/.claudeguard")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

// Load unmarshals the effective configuration and applies the active
// profile overlay, if any.
func Load() (Config, error) {
	config, err := loadViperConfig()
	if err != nil {
		return config, err
	}

	// The default profile is the base configuration itself
	if config.Profiles != nil {
		delete(config.Profiles, "default")
	}

	if name := getActiveProfile(); name != "" {
		profile, exists := config.Profiles[name]
		if !exists {
			return config, errors.Errorf("unknown profile %q", name)
		}
		if err := applyProfile(&config, profile); err != nil {
			return config, err
		}
	}

	return config, nil
}

func loadViperConfig() (Config, error) {
	var config Config

	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "fmt"
	}
	if len(config.Hooks.Branch.AllowedBranches) == 0 {
		config.Hooks.Branch.AllowedBranches = DefaultAllowedBranches
	}
	if config.Hooks.Format.Timeout == 0 {
		config.Hooks.Format.Timeout = DefaultFormatTimeout
	}

	return config, nil
}

func getActiveProfile() string {
	profile := viper.GetString("profile")
	if profile == "default" || profile == "" {
		return ""
	}
	return profile
}

func applyProfile(config *Config, profile ProfileConfig) error {
	// Merge profile values over the base without erasing unset fields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(map[string]any(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// HookDisabled reports whether a hook name appears in hooks.disabled.
func (c Config) HookDisabled(name string) bool {
	for _, d := range c.Hooks.Disabled {
		if d == name {
			return true
		}
	}
	return false
}
