package app

import (
	"context"
	"log/slog"
	"phanalist/internal/core/errors"
	"phanalist/internal/data/history"
	"phanalist/internal/engine/results"
)

// Run scans the configured source root and, with history enabled, records a
// snapshot of the outcome.
func (a *App) Run(ctx context.Context) (*results.Results, error) {
	res, err := a.Scan(ctx, []string{a.Config.Src})
	if err != nil {
		return nil, err
	}
	if a.history != nil {
		if err := a.recordSnapshot(res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (a *App) recordSnapshot(res *results.Results) error {
	key := a.ProjectKey()
	previous, hasPrevious, err := a.history.Latest(key)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "load previous snapshot")
	}

	snapshot := history.NewSnapshot(a.Config.Src, res)
	snapshot.ProjectKey = key
	if err := a.history.SaveSnapshot(snapshot); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "save snapshot")
	}

	attrs := []any{"run_id", snapshot.RunID, "violations", snapshot.ViolationCount}
	if hasPrevious {
		if points, err := history.BuildTrend([]history.Snapshot{previous, snapshot}); err == nil {
			attrs = append(attrs, "delta_violations", points[1].DeltaViolations)
		}
	}
	slog.Info("recorded scan snapshot", attrs...)
	return nil
}
