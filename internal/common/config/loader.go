// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "INTAKE"

// Load reads configs/config.yaml (optional), merges config.<env>.yaml on top,
// then lets INTAKE_* environment variables override any key.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv(envPrefix + "_APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional overlay

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "candidate-intake")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("submission.webhook_url", "")
	v.SetDefault("submission.timeout", 30000)
	v.SetDefault("submission.max_retries", 3)
	v.SetDefault("submission.initial_delay", 1000)
	v.SetDefault("submission.user_agent", "")

	v.SetDefault("persistence.backend", "file")
	v.SetDefault("persistence.directory", "")
	v.SetDefault("persistence.storage_key", "ai-engineer-form-draft")
	v.SetDefault("persistence.debounce", 1000)
	v.SetDefault("persistence.ttl", 0)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "")
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in YAML string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// applyDefaults repairs zero values a YAML file may have written explicitly.
func applyDefaults(cfg *Config) {
	if cfg.Submission.Timeout <= 0 {
		cfg.Submission.Timeout = 30000
	}
	if cfg.Submission.MaxRetries < 0 {
		cfg.Submission.MaxRetries = 0
	}
	if cfg.Submission.InitialDelay <= 0 {
		cfg.Submission.InitialDelay = 1000
	}
	if cfg.Submission.UserAgent == "" {
		cfg.Submission.UserAgent = fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version)
	}

	if cfg.Persistence.Backend == "" {
		cfg.Persistence.Backend = "file"
	}
	if cfg.Persistence.StorageKey == "" {
		cfg.Persistence.StorageKey = "ai-engineer-form-draft"
	}
	if cfg.Persistence.Debounce <= 0 {
		cfg.Persistence.Debounce = 1000
	}
	if cfg.Persistence.Directory == "" {
		if home, err := os.UserConfigDir(); err == nil {
			cfg.Persistence.Directory = filepath.Join(home, cfg.App.Name)
		} else {
			cfg.Persistence.Directory = "."
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// validateConfig checks settings whose absence breaks startup. A missing
// webhook URL is reported by the submission pipeline at submit time.
func validateConfig(cfg *Config) error {
	switch cfg.Persistence.Backend {
	case "file":
	case "redis":
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when persistence.backend is redis")
		}
	default:
		return fmt.Errorf("persistence.backend must be file or redis, got %q", cfg.Persistence.Backend)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics are enabled")
	}
	return nil
}
