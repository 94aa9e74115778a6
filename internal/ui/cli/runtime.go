package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	coreapp "phanalist/internal/core/app"
	"phanalist/internal/core/config"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/results"
	"phanalist/internal/shared/version"
	"phanalist/internal/ui/report/formats"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

const (
	exitOK         = 0
	exitError      = 1
	exitUsage      = 2
	exitViolations = 70
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "phanalist %s\n", version.Version)
		return exitOK
	}

	configureLogging(stderr, opts.verbose, opts.quiet)

	if opts.defaultConfig {
		if err := config.WriteDefault(opts.configPath); err != nil {
			slog.Error("failed to write default config", "error", err)
			return exitError
		}
		fmt.Fprintf(stdout, "Default configuration written to %s\n", opts.configPath)
		return exitOK
	}

	cfg, err := loadConfig(opts.configPath, opts.changed["config"])
	if err != nil {
		logError("failed to load config", err)
		return exitError
	}
	applyOverrides(opts, cfg)
	if err := config.Validate(cfg); err != nil {
		logError("invalid configuration", err)
		return exitError
	}

	if cfg.Metrics.Address != "" {
		server := NewObservabilityServer(cfg.Metrics.Address)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err, "addr", cfg.Metrics.Address)
			return exitError
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	analysis, err := coreapp.New(cfg)
	if err != nil {
		logError("failed to initialize analysis", err)
		return exitError
	}
	defer analysis.Close()

	renderOpts := formats.Options{
		ProjectRoot: projectRoot(cfg.Src),
		Rules:       analysis.EnabledRules(),
		SummaryOnly: cfg.Output.SummaryOnly,
	}
	emit := func(res *results.Results) error {
		if opts.quiet {
			return nil
		}
		return formats.Render(stdout, cfg.Output.Format, res, renderOpts)
	}

	res, err := analysis.Run(ctx)
	if err != nil {
		logError("scan failed", err)
		return exitError
	}
	if err := emit(res); err != nil {
		logError("failed to render report", err)
		return exitError
	}

	if opts.watch {
		err := analysis.Watch(ctx, func(res *results.Results, err error) {
			if err != nil {
				logError("re-scan failed", err)
				return
			}
			if err := emit(res); err != nil {
				logError("failed to render report", err)
			}
		})
		if err != nil {
			logError("watch failed", err)
			return exitError
		}
		return exitOK
	}

	if res.HasAnyViolations() {
		return exitViolations
	}
	return exitOK
}

func configureLogging(w io.Writer, verbose, quiet bool) {
	logLevel := slog.LevelInfo
	switch {
	case verbose:
		logLevel = slog.LevelDebug
	case quiet:
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// loadConfig falls back to defaults only when the implicit default path is
// missing. An explicitly named config file must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		slog.Debug("using configuration file", "path", path)
		return cfg, nil
	}
	if !explicit && errors.IsCode(err, errors.CodeNotFound) {
		slog.Debug("no configuration file found, using defaults", "path", path)
		return config.Default(), nil
	}
	return nil, err
}

func logError(msg string, err error) {
	slog.Error(msg, "error", err)
}

// projectRoot anchors report paths: the source directory itself, or the
// parent directory when src names a single file.
func projectRoot(src string) string {
	info, err := os.Stat(src)
	if err == nil && !info.IsDir() {
		return filepath.Dir(src)
	}
	return src
}
