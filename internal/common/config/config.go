// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Submission  SubmissionConfig  `mapstructure:"submission"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// SubmissionConfig drives the webhook delivery pipeline.
type SubmissionConfig struct {
	WebhookURL   string `mapstructure:"webhook_url"`
	Timeout      int    `mapstructure:"timeout"`       // milliseconds, per attempt
	MaxRetries   int    `mapstructure:"max_retries"`   // attempts after the first
	InitialDelay int    `mapstructure:"initial_delay"` // milliseconds, doubled per retry
	UserAgent    string `mapstructure:"user_agent"`
}

// PersistenceConfig selects where in-progress answers are snapshotted.
type PersistenceConfig struct {
	Backend    string `mapstructure:"backend"` // "file" or "redis"
	Directory  string `mapstructure:"directory"`
	StorageKey string `mapstructure:"storage_key"`
	Debounce   int    `mapstructure:"debounce"` // milliseconds
	TTL        int    `mapstructure:"ttl"`      // seconds, redis only; 0 keeps forever
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig enables a Prometheus textfile dump when the CLI exits.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
