// cmd/intake/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	formpersistence "candidate-intake/internal/application/form-persistence"
	stepvalidator "candidate-intake/internal/application/step-validator"
	submitapplication "candidate-intake/internal/application/submit-application"
	"candidate-intake/internal/common/config"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/common/observability"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability

	store      formpersistence.Store
	closeStore func() error
	drafts     *formpersistence.Adapter
	validator  *stepvalidator.Validator
	submitter  *submitapplication.Service
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)
	obs := observability.New(cfg.App.Name, nil, log)

	store, closeStore, err := formpersistence.NewStore(cfg.Persistence, cfg.Redis)
	if err != nil {
		obs.Shutdown()
		return nil, fmt.Errorf("persistence init failed: %w", err)
	}

	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		err = retryWithBackoff(func() error {
			return pinger.Ping(ctx)
		}, 3, 200*time.Millisecond, zapLog, "Snapshot store connection")
		if err != nil {
			closeStore()
			obs.Shutdown()
			return nil, err
		}
	}

	submitter := submitapplication.NewService(
		submitapplication.LoadConfig(cfg.Submission), nil, log,
		submitapplication.WithObservability(obs),
	)

	a := &app{
		cfg:        cfg,
		zapLog:     zapLog,
		log:        log,
		obs:        obs,
		store:      store,
		closeStore: closeStore,
		drafts:     formpersistence.NewAdapter(store, config.GetDuration(cfg.Persistence.Debounce), log),
		validator:  stepvalidator.New(log, obs),
		submitter:  submitter,
	}

	log.Debug("intake initialised", map[string]interface{}{
		"environment": cfg.App.Environment,
		"backend":     store.Backend(),
	})
	return a, nil
}

func (a *app) Close() {
	if err := a.drafts.Close(); err != nil {
		a.log.Warn("failed to close draft adapter", map[string]interface{}{"error": err})
	}
	if a.cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			a.log.Warn("failed to write metrics textfile", map[string]interface{}{
				"path":  a.cfg.Metrics.TextfilePath,
				"error": err,
			})
		}
	}
	a.obs.Shutdown()
	if err := a.closeStore(); err != nil {
		a.log.Warn("failed to close snapshot store", map[string]interface{}{"error": err})
	}
	_ = a.zapLog.Sync()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
