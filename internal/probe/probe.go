package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/logging"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/resolver"
)

var (
	// ErrNotReady is returned when a service did not accept a connection before the deadline.
	ErrNotReady = errors.New("service not ready")
	// ErrUnsupportedScheme is returned for URLs no probe knows how to check.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Checker performs a single readiness attempt.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Options bounds a wait.
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
}

// ForURL returns the checker matching the scheme of raw.
func ForURL(name, raw string) (Checker, error) {
	scheme, _, found := strings.Cut(raw, "://")
	if !found {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedScheme)
	}

	switch strings.ToLower(scheme) {
	case "psql", "pgsql", "postgres", "postgresql":
		return NewPostgres(name, raw)
	case "amqp", "amqps":
		return NewAMQP(name, raw)
	default:
		return nil, fmt.Errorf("%s: %w %q", name, ErrUnsupportedScheme, scheme)
	}
}

// Checkers builds checkers for every distinct URL in result. URLs with an
// unsupported scheme are skipped with a warning.
func Checkers(result resolver.Result, logger *zap.Logger) []Checker {
	seen := make(map[string]struct{}, 3)
	checkers := make([]Checker, 0, 3)

	for _, v := range result.Vars() {
		if v.Value == "" {
			continue
		}
		if _, dup := seen[v.Value]; dup {
			continue
		}
		seen[v.Value] = struct{}{}

		checker, err := ForURL(v.Name, v.Value)
		if err != nil {
			logger.Warn("skipping readiness probe",
				logging.RedactedURL("url", v.Value),
				zap.Error(err),
			)
			continue
		}
		checkers = append(checkers, checker)
	}

	return checkers
}

// Wait probes all checkers in parallel until each succeeds or the timeout
// elapses. The returned error names every service that never became ready.
func Wait(ctx context.Context, logger *zap.Logger, checkers []Checker, opts Options) error {
	if len(checkers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	errs := make([]error, len(checkers))
	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			errs[i] = waitOne(ctx, logger, checker, opts.Interval)
			return errs[i]
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func waitOne(ctx context.Context, logger *zap.Logger, checker Checker, interval time.Duration) error {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	name := checker.Name()
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return fmt.Errorf("%w: %s after %d attempts: %w", ErrNotReady, name, attempt-1, lastErr)
		}

		err := checker.Check(ctx)
		if err == nil {
			logger.Info("service ready", zap.String("service", name), zap.Int("attempts", attempt))
			return nil
		}

		lastErr = err
		logger.Debug("service not ready",
			zap.String("service", name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
