// Package app wires configuration, the rule registry, the parser and the
// optional history store into scans over a source tree.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"phanalist/internal/core/config"
	"phanalist/internal/core/errors"
	"phanalist/internal/core/ports"
	"phanalist/internal/data/history"
	"phanalist/internal/engine/parser"
	"phanalist/internal/engine/rules"
	"phanalist/internal/shared/util"
)

type App struct {
	Config   *config.Config
	Registry *rules.Registry

	parser  ports.CodeParser
	enabled []rules.Rule
	history ports.HistoryStore

	excludeDirs  *util.PathPatterns
	excludeFiles *util.PathPatterns
}

// New configures the rule registry from cfg and opens the history store when
// history is enabled.
func New(cfg *config.Config) (*App, error) {
	registry := rules.DefaultRegistry()
	registry.Configure(cfg.Rules)

	excludeDirs, err := compilePatterns(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	excludeFiles, err := compilePatterns(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:       cfg,
		Registry:     registry,
		parser:       parser.New(),
		enabled:      registry.Enabled(cfg.EnabledRules, cfg.DisableRules),
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			wrapped := errors.AddContext(errors.Wrap(err, errors.CodeInternal, "open history store"), errors.CtxPath, cfg.History.Path)
			if history.IsCorruptError(err) {
				wrapped = errors.AddContext(wrapped, errors.CtxHint, "delete the history database to start over")
			}
			return nil, wrapped
		}
		a.history = store
	}

	slog.Debug("rules enabled", "count", len(a.enabled))
	return a, nil
}

func compilePatterns(patterns []string, label string) (*util.PathPatterns, error) {
	pp, err := util.CompilePathPatterns(patterns)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid %s pattern", label))
	}
	return pp, nil
}

func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}

// EnabledRules returns the rules a scan runs, ordered by code.
func (a *App) EnabledRules() []rules.Rule {
	return a.enabled
}

// ProjectKey identifies the scanned tree in the history store.
func (a *App) ProjectKey() string {
	abs, err := filepath.Abs(a.Config.Src)
	if err != nil {
		return filepath.Clean(a.Config.Src)
	}
	return abs
}
