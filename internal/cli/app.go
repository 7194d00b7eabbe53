// Package cli holds the start-up code shared by the pipeline commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"shamir/internal/config"
	"shamir/internal/content"
	"shamir/internal/crawler"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/throttle"
)

// Flags are the options every command understands.
type Flags struct {
	Config string
	Dir    string
	DryRun bool
}

// RegisterFlags adds the common flags to fs. --dry-run is only added when
// the command supports it.
func RegisterFlags(fs *pflag.FlagSet, withDryRun bool) *Flags {
	f := &Flags{}

	fs.StringVar(&f.Config, "config", "", "Path to config file (default "+config.DefaultConfigPath+" when present)")
	fs.StringVar(&f.Dir, "dir", "", "Article directory (overrides content.articles_dir)")

	if withDryRun {
		fs.BoolVar(&f.DryRun, "dry-run", false, "Report changes without writing files")
	}

	return f
}

// App is a bootstrapped command.
type App struct {
	Job     string
	RunID   string
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Store   *content.Store
	Out     io.Writer
	DryRun  bool
	Sleep   throttle.SleepFunc
}

// Bootstrap loads configuration and builds the logger, metrics and store.
func Bootstrap(job string, flags *Flags, out io.Writer) (*App, error) {
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return nil, err
	}

	if flags.Dir != "" {
		cfg.Content.ArticlesDir = flags.Dir
	}

	if out == nil {
		out = io.Discard
	}

	runID := uuid.NewString()
	log := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding).With("job", job, "run_id", runID)

	return &App{
		Job:     job,
		RunID:   runID,
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
		Store:   content.NewStore(cfg.Content.ArticlesDir),
		Out:     out,
		DryRun:  flags.DryRun,
		Sleep:   throttle.Sleep,
	}, nil
}

// Fetcher returns a throttled fetcher for the legacy sites.
func (a *App) Fetcher() *crawler.Fetcher {
	return crawler.NewFetcher(a.Config, a.Metrics, a.Sleep)
}

// Close writes the metrics textfile when one is configured and flushes the
// logger.
func (a *App) Close() error {
	if path := a.Config.Metrics.Textfile; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			return err
		}
	}

	_ = a.Log.Sync()

	return nil
}

// RunFunc is the body of a command.
type RunFunc func(ctx context.Context, app *App) error

// Main bootstraps the command, runs fn until it returns or the process is
// interrupted, and returns the exit code.
func Main(job string, flags *Flags, fn RunFunc) int {
	app, err := Bootstrap(job, flags, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Execute(ctx, fn)
}

// Execute runs fn and maps its error to an exit code.
func (a *App) Execute(ctx context.Context, fn RunFunc) int {
	a.Log.Info("Starting job", "articles_dir", a.Config.Content.ArticlesDir)

	runErr := fn(ctx, a)

	if err := a.Close(); err != nil {
		a.Log.Warn("Failed to write metrics", "error", err)
	}

	if runErr != nil {
		a.Log.Error("Job failed", "error", runErr)
		fmt.Fprintf(a.Out, "❌ %s failed: %v\n", a.Job, runErr)

		return 1
	}

	a.Log.Info("Job finished")

	return 0
}
