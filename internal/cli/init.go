// Package cli wires configuration, logging and backends into the ledger
// commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

// SetupLogger builds the process logger from the configuration and makes it
// the slog default. Logs never go to stdout, which belongs to the menu.
func SetupLogger(cfg *config.Config, w io.Writer) *applog.Logger {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = applog.DefaultConfig().Level
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    w,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment, overlays the YAML file at path
// when one is given, applies overrides and validates the result.
func LoadAndValidateConfig(path string, override func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if path == "" {
		path = os.Getenv("LEDGER_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConnectPublisher returns an event publisher when AMQP is configured.
// A broker that cannot be reached is logged and the ledger runs without events.
func ConnectPublisher(logger *applog.Logger, cfg *config.Config) services.Publisher {
	if cfg.AMQPURL == "" {
		return nil
	}
	amqpLogger := logger.WithComponent(applog.ComponentAMQP)
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqp.WithLogger(amqpLogger))
	if err != nil {
		amqpLogger.Warn("AMQP unavailable, continuing without events", applog.NewFields().
			WithErrorType(applog.ErrorTypeNetwork).
			WithError(err).ToSlice()...)
		return nil
	}
	amqpLogger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// OpenLedger creates the configured backend and loads it into a fresh store.
// The caller owns the returned service and must Close it.
func OpenLedger(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*services.LedgerService, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}

	opts := []services.Option{
		services.WithLogger(logger.WithComponent(applog.ComponentStore)),
		services.WithCleanup(result.Cleanup),
	}
	if pub := ConnectPublisher(logger, cfg); pub != nil {
		opts = append(opts, services.WithPublisher(pub))
	}

	svc := services.NewLedgerService(ledger.New(), result.Backend, opts...)
	logger.DebugContext(ctx, "Opening ledger", applog.NewFields().
		WithOperation(applog.OpLoad).
		WithStorage(backendCfg.Type.String(), cfg.LedgerFile, 0).ToSlice()...)
	if err := svc.Load(ctx); err != nil {
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("Cleanup after failed load", "error", cerr)
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return svc, nil
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
