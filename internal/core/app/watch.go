package app

import (
	"context"
	"log/slog"
	"phanalist/internal/core/errors"
	"phanalist/internal/core/watcher"
	"phanalist/internal/engine/results"
	"sync"
)

// Watch re-runs the scan after every debounced batch of PHP file changes
// under the source root and hands each outcome to onResults. It blocks until
// ctx is done and returns once any running scan has finished.
func (a *App) Watch(ctx context.Context, onResults func(*results.Results, error)) error {
	var scanMu sync.Mutex

	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, func(paths []string) {
		scanMu.Lock()
		defer scanMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		slog.Info("detected changes", "count", len(paths))
		res, err := a.Run(ctx)
		onResults(res, err)
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create watcher")
	}
	defer w.Close()

	if err := w.Watch([]string{a.Config.Src}); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "watch source"), errors.CtxPath, a.Config.Src)
	}
	slog.Info("watching for changes", "path", a.Config.Src)

	<-ctx.Done()
	scanMu.Lock()
	defer scanMu.Unlock()
	return nil
}
