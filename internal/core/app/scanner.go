package app

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"phanalist/internal/core/errors"
	"phanalist/internal/data/queue"
	"phanalist/internal/engine/results"
	"phanalist/internal/shared/observability"
	"phanalist/internal/shared/util"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const consumeBatchSize = 32

// Scan discovers the PHP files under roots and analyses them in discovery
// order. Discovery runs concurrently with a single analysing consumer.
func (a *App) Scan(ctx context.Context, roots []string) (*results.Results, error) {
	start := time.Now()
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "source path does not exist"), errors.CtxPath, root)
		}
	}

	q := queue.NewMemoryQueue()
	res := results.New()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer q.Close()
		return a.discover(gctx, roots, q)
	})
	g.Go(func() error {
		return a.consume(gctx, q, res)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	observability.ScanDuration.Observe(res.Duration.Seconds())
	slog.Debug("scan finished", "files", res.TotalFilesCount, "violations", res.TotalViolations(), "duration", res.Duration, "heap_mb", util.HeapAllocMB())
	return res, nil
}

func (a *App) discover(ctx context.Context, roots []string, q *queue.MemoryQueue) error {
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				slog.Warn("failed to read path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && a.excludedDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !a.includedFile(path) {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("failed to process file", "path", path, "error", err)
				return nil
			}
			q.Enqueue(queue.Job{Path: path, Content: content})
			return nil
		})
		if err != nil {
			return err
		}
		slog.Debug("discovery finished", "root", root, "backlog", q.Len())
	}
	return nil
}

func (a *App) consume(ctx context.Context, q *queue.MemoryQueue, res *results.Results) error {
	for {
		batch, err := q.DequeueBatch(ctx, consumeBatchSize, 0)
		for _, job := range batch {
			res.AddFile(job.Path, a.AnalyseFile(job.Path, job.Content))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) excludedDir(path string) bool {
	return a.excludeDirs.Match(path)
}

func (a *App) includedFile(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".php") {
		return false
	}
	return !a.excludeFiles.Match(path)
}
