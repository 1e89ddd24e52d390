package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host      string `mapstructure:"host" validate:"required"`
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json text"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL selects the driver: sqlite://path, file:path or :memory: for the
	// embedded store, postgres:// or postgresql:// for a server.
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// SchedulerConfig contains the spaced-repetition settings.
type SchedulerConfig struct {
	// Timezone is the IANA name used to split practice sessions into days.
	Timezone            string `mapstructure:"timezone" validate:"required"`
	MasteryIntervalDays int    `mapstructure:"mastery_interval_days" validate:"required,gt=0"`
	MasteryPolicy       string `mapstructure:"mastery_policy" validate:"required,oneof=every_review first_crossing"`
}

// ReconcileConfig controls the periodic statistics consistency check.
type ReconcileConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" validate:"required_if=Enabled true,gte=0"`
	// Repair rewrites drifted counters with the values derived from cards.
	Repair bool `mapstructure:"repair"`
}
