// Package config loads blogql settings.
//
// Values are layered, lowest precedence first: built-in defaults, the YAML
// config file, BLOGQL_* environment variables, then command-line flags.
// Nested keys map to environment variables with '.' replaced by '_', so
// log.level is read from BLOGQL_LOG_LEVEL.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BLOGQL"

// Keys.
const (
	KeyAddr            = "addr"
	KeySeed            = "seed"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyMetricsEnabled  = "metrics.enabled"
	KeyMaxDepth        = "graphql.max_depth"
	KeyShutdownTimeout = "shutdown_timeout"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the decoded configuration.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Seed            string        `mapstructure:"seed"`
	Log             LogConfig     `mapstructure:"log"`
	Metrics         MetricsConfig `mapstructure:"metrics"`
	GraphQL         GraphQLConfig `mapstructure:"graphql"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type GraphQLConfig struct {
	// MaxDepth limits query nesting. Zero means unlimited.
	MaxDepth int `mapstructure:"max_depth"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults installs the built-in default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAddr, ":4000")
	v.SetDefault(KeySeed, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, FormatConsole)
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyMaxDepth, 0)
	v.SetDefault(KeyShutdownTimeout, "10s")
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":             KeyAddr,
	"seed":             KeySeed,
	"log-level":        KeyLogLevel,
	"log-format":       KeyLogFormat,
	"metrics":          KeyMetricsEnabled,
	"max-depth":        KeyMaxDepth,
	"shutdown-timeout": KeyShutdownTimeout,
}

// BindFlags binds every known flag present in fs. Flags only override the
// lower layers when set explicitly.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// ReadFile merges the YAML config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != FormatConsole && c.Log.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", FormatConsole, FormatJSON, c.Log.Format))
	}
	if c.GraphQL.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("graphql.max_depth must not be negative, got %d", c.GraphQL.MaxDepth))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
