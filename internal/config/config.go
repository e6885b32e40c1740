// Package config provides configuration management for semconvert.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SEMCONVERT_ prefix)
//  3. Config file (.semconvert.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Bounds for the chart JSON indent.
const (
	MinJSONIndent = 0
	MaxJSONIndent = 10
)

// Config represents the global configuration for semconvert.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Verbose raises the log level to debug so every accepted and rejected
	// quad is logged.
	Verbose bool `mapstructure:"verbose" json:"verbose"`

	// StripURLs shortens identifiers in table, chart and graph output.
	StripURLs bool `mapstructure:"strip-urls" json:"stripUrls"`

	// Squelch blanks labels and values in table, chart and graph output.
	Squelch bool `mapstructure:"squelch" json:"squelch"`

	// NoPrefix drops prefix declarations from the input.
	NoPrefix bool `mapstructure:"noprefix" json:"noprefix"`

	// JSONIndent is the chart JSON indent width.
	JSONIndent int `mapstructure:"json-indent" json:"jsonIndent"`

	// DotHeader is an extra line emitted into DOT output.
	DotHeader string `mapstructure:"dot-header" json:"dotHeader"`

	// CSVQuote wraps CSV fields in double quotes.
	CSVQuote bool `mapstructure:"csv-quote" json:"csvQuote"`

	// Filter rule lists, one regular expression per entry.
	DenySubjLike   []string `mapstructure:"deny-subj-like" json:"denySubjLike,omitempty"`
	PassSubjLike   []string `mapstructure:"pass-subj-like" json:"passSubjLike,omitempty"`
	DenyPredLike   []string `mapstructure:"deny-pred-like" json:"denyPredLike,omitempty"`
	PassPredLike   []string `mapstructure:"pass-pred-like" json:"passPredLike,omitempty"`
	DenyObjLike    []string `mapstructure:"deny-obj-like" json:"denyObjLike,omitempty"`
	PassObjLike    []string `mapstructure:"pass-obj-like" json:"passObjLike,omitempty"`
	DenyEntityLike []string `mapstructure:"deny-entity-like" json:"denyEntityLike,omitempty"`
	PassEntityLike []string `mapstructure:"pass-entity-like" json:"passEntityLike,omitempty"`

	// RulesFile is a YAML rules document merged into the rule lists.
	RulesFile string `mapstructure:"rules" json:"rules,omitempty"`

	// Profile names a built-in or custom filter profile.
	Profile string `mapstructure:"profile" json:"profile,omitempty"`

	// RequiredVersion is a semver constraint the binary must satisfy.
	RequiredVersion string `mapstructure:"required-version" json:"requiredVersion,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.JSONIndent < MinJSONIndent || c.JSONIndent > MaxJSONIndent {
		return fmt.Errorf("invalid json indent %d: must be between %d and %d", c.JSONIndent, MinJSONIndent, MaxJSONIndent)
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
// Otherwise Verbose forces "debug".
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	if c.Verbose {
		return LogLevelDebug
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Store the resolved config file path so downstream code can locate it.
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ruleKeys lists the config keys of the eight filter rule lists.
var ruleKeys = []string{
	"deny-subj-like", "pass-subj-like",
	"deny-pred-like", "pass-pred-like",
	"deny-obj-like", "pass-obj-like",
	"deny-entity-like", "pass-entity-like",
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)

	v.SetDefault("strip-urls", false)
	v.SetDefault("squelch", false)
	v.SetDefault("noprefix", false)
	v.SetDefault("json-indent", 0)
	v.SetDefault("dot-header", "")
	v.SetDefault("csv-quote", false)
	v.SetDefault("rules", "")
	v.SetDefault("profile", "")
	v.SetDefault("required-version", "")

	for _, key := range ruleKeys {
		v.SetDefault(key, []string{})
	}
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("SEMCONVERT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".semconvert")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "semconvert"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found: defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	// Bind the current command's own flags.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Walk up to root and bind all persistent flags at each level.
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
