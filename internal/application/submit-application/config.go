// internal/application/submit-application/config.go
package submitapplication

import (
	"time"

	"candidate-intake/internal/common/config"
)

type Config struct {
	WebhookURL   string
	Timeout      time.Duration // per attempt
	MaxRetries   int
	InitialDelay time.Duration
	UserAgent    string
}

func LoadConfig(cfg config.SubmissionConfig) *Config {
	c := &Config{
		WebhookURL:   cfg.WebhookURL,
		Timeout:      config.GetDuration(cfg.Timeout),
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: config.GetDuration(cfg.InitialDelay),
		UserAgent:    cfg.UserAgent,
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "candidate-intake"
	}
	return c
}
