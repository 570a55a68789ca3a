// Package cli implements the huectl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/config"
	"github.com/dokzlo13/huectl/internal/db"
	"github.com/dokzlo13/huectl/internal/hue"
	"github.com/dokzlo13/huectl/internal/ledger"
	"github.com/dokzlo13/huectl/internal/metrics"
)

// ErrLedgerDisabled is returned by commands that need the write history when ledger.path is empty
var ErrLedgerDisabled = errors.New("write history is disabled (set ledger.path)")

// TransportFactory builds the bridge transport from resolved configuration
type TransportFactory func(cfg *config.Config) (hue.Transport, error)

// Option configures an App
type Option func(*App)

// WithTransportFactory replaces the HTTPS transport, typically with a huetest.Transport
func WithTransportFactory(f TransportFactory) Option {
	return func(a *App) { a.newTransport = f }
}

// WithOutput redirects rendered results and logs
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// App holds everything one huectl invocation shares between commands
type App struct {
	newTransport TransportFactory
	stdout       io.Writer
	stderr       io.Writer

	flags struct {
		configPath string
		bridge     string
		token      string
		output     string
		logLevel   string
	}

	cfg       *config.Config
	runID     string
	recorder  *metrics.Recorder
	database  *db.DB
	ledger    *ledger.Ledger
	ledgerErr error
	base      hue.Transport
	bridge    hue.Transport
}

// New creates an App
func New(opts ...Option) *App {
	a := &App{
		newTransport: httpTransport,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		runID:        uuid.NewString(),
		recorder:     metrics.NewRecorder(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunID identifies this invocation in logs and in the write history
func (a *App) RunID() string {
	return a.runID
}

// Run executes the command line and releases everything the commands opened
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	a.finish(root.Context())
	return err
}

// setup resolves configuration and logging. It runs before every command.
func (a *App) setup(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	for flag, key := range map[string]string{
		"bridge":    "hue.bridge",
		"token":     "hue.token",
		"output":    "output",
		"log-level": "log.level",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.Load(config.Options{Path: a.flags.configPath, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger := setupLogging(a.stderr, cfg.Log).With().Str("run_id", a.runID).Logger()
	zerolog.DefaultContextLogger = &logger
	cmd.SetContext(logger.WithContext(cmd.Context()))

	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("bridge", cfg.Hue.Bridge).
		Str("output", cfg.Output).
		Msg("Starting huectl")

	if cfg.Ledger.Path != "" {
		database, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			// Bridge commands still run; only history needs the ledger.
			a.ledgerErr = fmt.Errorf("open write history: %w", err)
			logger.Warn().Err(err).Str("path", cfg.Ledger.Path).Msg("Write history unavailable, continuing without it")
			return nil
		}
		a.database = database
		a.ledger = ledger.New(database.DB)
	}
	return nil
}

// transport returns the bridge transport, building it on first use.
// Requests pass the write history first, then metrics, then HTTPS.
func (a *App) transport() (hue.Transport, error) {
	if a.bridge != nil {
		return a.bridge, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := a.newTransport(a.cfg)
	if err != nil {
		return nil, err
	}
	a.base = base

	t := metrics.Instrument(base, a.recorder)
	if a.ledger != nil {
		t = ledger.Recording(t, a.ledger, a.runID)
	}
	a.bridge = t
	return t, nil
}

// finish pushes metrics and closes resources regardless of how the command ended
func (a *App) finish(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zerolog.Ctx(ctx)

	if a.cfg != nil && a.cfg.Metrics.Pushgateway != "" && a.bridge != nil {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := a.recorder.Push(pushCtx, a.cfg.Metrics.Pushgateway, a.cfg.Metrics.Job); err != nil {
			logger.Warn().Err(err).Str("url", a.cfg.Metrics.Pushgateway).Msg("Failed to push metrics")
		}
		cancel()
	}

	if c, ok := a.base.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close bridge transport")
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close write history")
		}
	}
}

func httpTransport(cfg *config.Config) (hue.Transport, error) {
	return hue.NewHTTPTransport(
		cfg.Hue.Bridge,
		cfg.Hue.Token,
		hue.WithTimeout(cfg.Hue.Timeout),
		hue.WithRateLimit(cfg.Hue.RateLimitRPS),
	), nil
}

func setupLogging(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if cfg.JSON {
		logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !cfg.Colors,
		}).With().Timestamp().Logger()
	}

	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	log.Logger = logger
	return logger
}
