package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/application"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/config"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/launcher"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/logging"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/manifest"
)

var signalNotify = signal.Notify

type cli struct {
	app *kingpin.Application

	configFile string
	envFile    string
	logLevel   string

	exec         *kingpin.CmdClause
	wait         bool
	waitSet      bool
	waitTimeout  time.Duration
	waitInterval time.Duration
	argv         []string

	print  *kingpin.CmdClause
	format string

	waitOnly *kingpin.CmdClause

	secret          *kingpin.CmdClause
	secretName      string
	secretNamespace string
	secretLabels    map[string]string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("entrypoint", "Container entrypoint - resolves DATABASE_URL and BROKER_URL and hands control to the wrapped command.\n\n"+
		"exec is the default command. A wrapped command named exec, print, wait, secret or help must be prefixed with an explicit exec.")
	c.app.Interspersed(false)

	c.app.Flag("config", "Path to YAML defaults file").StringVar(&c.configFile)
	c.app.Flag("env-file", "Path to a dotenv file layered under the process environment").StringVar(&c.envFile)
	c.app.Flag("log-level", "Log level (debug, info, warn, error)").StringVar(&c.logLevel)

	c.exec = c.app.Command("exec", "Resolve and export connection URLs, then exec the command").Default()
	c.exec.Flag("wait", "Wait for the database and broker before exec").IsSetByUser(&c.waitSet).BoolVar(&c.wait)
	c.exec.Flag("wait-timeout", "Upper bound for --wait").DurationVar(&c.waitTimeout)
	c.exec.Flag("wait-interval", "Minimum spacing between readiness attempts").DurationVar(&c.waitInterval)
	c.exec.Arg("command", "Command to exec, followed by its arguments").StringsVar(&c.argv)

	c.print = c.app.Command("print", "Print the resolved connection URLs")
	c.print.Flag("format", "Output format").Default(formatEnv).EnumVar(&c.format, formatEnv, formatShell, formatYAML)

	c.waitOnly = c.app.Command("wait", "Wait for the database and broker to accept connections")
	c.waitOnly.Flag("wait-timeout", "Upper bound for the wait").DurationVar(&c.waitTimeout)
	c.waitOnly.Flag("wait-interval", "Minimum spacing between readiness attempts").DurationVar(&c.waitInterval)

	c.secret = c.app.Command("secret", "Render the resolved connection URLs as a Kubernetes Secret")
	c.secret.Flag("name", "Secret name").Required().StringVar(&c.secretName)
	c.secret.Flag("namespace", "Secret namespace").StringVar(&c.secretNamespace)
	c.secret.Flag("label", "Secret label as key=value (repeatable)").StringMapVar(&c.secretLabels)

	return c
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: c.configFile,
		EnvFile:    c.envFile,
	}

	if c.logLevel != "" {
		overrides.LogLevel = &c.logLevel
	}

	if c.waitSet {
		overrides.Wait = &c.wait
	}

	if c.waitTimeout > 0 {
		overrides.WaitTimeout = &c.waitTimeout
	}

	if c.waitInterval > 0 {
		overrides.WaitInterval = &c.waitInterval
	}

	return overrides
}

func run(args []string, stdout, stderr io.Writer) int {
	c := newCLI()
	c.app.UsageWriter(stderr)
	c.app.ErrorWriter(stderr)

	selected, err := c.app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", c.app.Name, err)
		return launcher.CodeUsage
	}

	cfg, err := config.Load(c.overrides())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	boot := application.New(cfg, logger)

	ctx, stop := signalContext(context.Background(), logger)
	defer stop()

	switch selected {
	case c.exec.FullCommand():
		err = boot.Exec(ctx, c.argv)
	case c.print.FullCommand():
		err = printVars(stdout, boot.Result(), c.format)
	case c.waitOnly.FullCommand():
		err = boot.WaitForServices(ctx)
	case c.secret.FullCommand():
		err = writeSecret(stdout, boot, manifest.SecretOptions{
			Name:      c.secretName,
			Namespace: c.secretNamespace,
			Labels:    c.secretLabels,
		})
	}

	code := launcher.Code(err)
	if code != 0 {
		logger.Error("entrypoint failed", zap.String("command", selected), zap.Int("exit_code", code), zap.Error(err))
	}
	return code
}

func writeSecret(w io.Writer, boot *application.App, opts manifest.SecretOptions) error {
	out, err := manifest.RenderSecret(boot.Result(), opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-quit:
			logger.Info("received signal, aborting", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(quit)
		cancel()
	}
}
