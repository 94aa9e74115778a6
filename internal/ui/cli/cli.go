package cli

import (
	"io"
	"phanalist/internal/core/config"
	"strings"

	"github.com/spf13/pflag"
)

type cliOptions struct {
	configPath    string
	defaultConfig bool
	src           string
	outputFormat  string
	summaryOnly   bool
	quiet         bool
	verbose       bool
	watch         bool
	history       bool
	metricsAddr   string
	version       bool

	// changed records which flags were set explicitly so they override the
	// config file only when given.
	changed map[string]bool
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := pflag.NewFlagSet("phanalist", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to config file (.yaml or .toml)")
	fs.BoolVar(&opts.defaultConfig, "default-config", false, "Write a default config to --config and exit")
	fs.StringVarP(&opts.src, "src", "s", "", "Source path to analyse (overrides config src)")
	fs.StringVarP(&opts.outputFormat, "output-format", "o", "", "Output format: "+strings.Join(config.OutputFormats, ", "))
	fs.BoolVar(&opts.summaryOnly, "summary-only", false, "Print only the per-rule summary")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the report; only the exit code signals violations")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&opts.watch, "watch", false, "Re-scan whenever PHP files under src change")
	fs.BoolVar(&opts.history, "history", false, "Record a snapshot of each scan in the history store")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVarP(&opts.version, "version", "V", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.changed = make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		opts.changed[f.Name] = true
	})
	if fs.NArg() > 0 && !opts.changed["src"] {
		opts.src = fs.Arg(0)
		opts.changed["src"] = true
	}
	return opts, nil
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(opts cliOptions, cfg *config.Config) {
	if opts.changed["src"] {
		cfg.Src = opts.src
	}
	if opts.changed["output-format"] {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(opts.outputFormat))
	}
	if opts.summaryOnly {
		cfg.Output.SummaryOnly = true
	}
	if opts.history {
		cfg.History.Enabled = true
	}
	if opts.changed["metrics-addr"] {
		cfg.Metrics.Address = opts.metricsAddr
	}
}
