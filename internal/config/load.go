package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	// embedded zone data so scheduler.timezone resolves on hosts without it
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment variable, e.g.
// RECODE_SERVER_PORT or RECODE_AUTH_JWT_SECRET.
const EnvPrefix = "RECODE"

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"log-level":    "server.log_level",
	"database-url": "database.url",
	"timezone":     "scheduler.timezone",
}

// options holds the sources Load reads from.
type options struct {
	flags      *pflag.FlagSet
	configFile string
	envFile    string
}

// Option customizes Load.
type Option func(*options)

// WithFlags binds the flags registered by RegisterFlags. Flags take precedence
// over environment variables and config files when they are set.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) { o.flags = fs }
}

// WithConfigFile reads an explicit YAML/TOML/JSON config file.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithEnvFile loads KEY=VALUE pairs from path into the environment before
// reading it. Variables already set are not overridden. A missing file is
// ignored.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "address to bind the HTTP server to")
	fs.Int("port", 0, "port for the HTTP server")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("database-url", "", "database URL (sqlite://path or postgres://...)")
	fs.String("timezone", "", "IANA timezone used for practice streaks")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	o := options{envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without defaults must be bound explicitly to be picked up by Unmarshal
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if o.flags != nil {
		for flagName, key := range flagKeys {
			flag := o.flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return fmt.Errorf("config validation failed: scheduler.timezone: %w", err)
	}
	return nil
}

// Location returns the scheduler's reference timezone.
func (c SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// Interval returns how often the reconciliation job runs.
func (c ReconcileConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")

	v.SetDefault("database.url", "sqlite://recode.db")
	v.SetDefault("database.max_open_conns", 0)

	v.SetDefault("auth.token_lifetime_minutes", 24*60)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)

	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.mastery_interval_days", 30)
	v.SetDefault("scheduler.mastery_policy", "every_review")

	v.SetDefault("reconcile.enabled", true)
	v.SetDefault("reconcile.interval_minutes", 60)
	v.SetDefault("reconcile.repair", false)
}
