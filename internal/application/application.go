package application

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/config"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/environ"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/launcher"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/logging"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/probe"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/resolver"
)

var (
	launch      = launcher.Exec
	environment = os.Environ
	processEnv  environ.Source = environ.OS{}
	newCheckers                = probe.Checkers
)

// App holds one bootstrap run.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	result resolver.Result
}

// New resolves the connection URLs for cfg.
func New(cfg config.Config, logger *zap.Logger) *App {
	result := resolver.Resolve(cfg.Inputs)

	logger.Debug("resolved connection URLs",
		logging.RedactedURL("database_url", result.DatabaseURL),
		zap.Bool("database_override", cfg.Inputs.Database.Override != ""),
		logging.RedactedURL("broker_url", result.BrokerURL),
		zap.Bool("broker_override", cfg.Inputs.Broker.Override != ""),
		logging.RedactedURL("celery_broker_url", result.CeleryBrokerURL),
		zap.Bool("alias_override", cfg.Inputs.BrokerAlias != ""),
	)

	return &App{cfg: cfg, logger: logger, result: result}
}

// Result returns the resolved URLs.
func (a *App) Result() resolver.Result {
	return a.result
}

// Exports returns every variable the wrapped command should inherit on top of
// the process environment: env-file entries the process does not already
// define, followed by the resolved URLs.
func (a *App) Exports() environ.Map {
	vars := environ.Missing(processEnv, a.cfg.FileEnv)
	for _, v := range a.result.Vars() {
		vars[v.Name] = v.Value
	}
	return vars
}

// Export writes Exports into the process environment.
func (a *App) Export() error {
	if err := environ.Export(a.Exports()); err != nil {
		return fmt.Errorf("export environment: %w", err)
	}
	return nil
}

// WaitForServices blocks until the database and broker accept connections or
// the configured timeout elapses.
func (a *App) WaitForServices(ctx context.Context) error {
	checkers := newCheckers(a.result, a.logger)
	a.logger.Info("waiting for services",
		zap.Int("services", len(checkers)),
		zap.Duration("timeout", a.cfg.WaitTimeout),
	)

	return probe.Wait(ctx, a.logger, checkers, probe.Options{
		Timeout:  a.cfg.WaitTimeout,
		Interval: a.cfg.WaitInterval,
	})
}

// Exec runs the bootstrap and transfers control to argv. On unix it returns
// only if something failed before or during exec.
func (a *App) Exec(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return launcher.ErrNoCommand
	}

	if a.cfg.Wait {
		if err := a.WaitForServices(ctx); err != nil {
			return err
		}
	}

	if err := a.Export(); err != nil {
		return err
	}

	a.logger.Info("executing command", zap.String("command", argv[0]), zap.Int("args", len(argv)-1))
	_ = a.logger.Sync()

	return launch(argv, environment())
}
