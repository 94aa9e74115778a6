package app

import (
	"log/slog"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/rules"
	"phanalist/internal/engine/source"
	"phanalist/internal/shared/observability"
)

// AnalyseFile parses content and runs the enabled rules over it. A file that
// fails to parse is analysed as an empty file.
func (a *App) AnalyseFile(path string, content []byte) []results.Violation {
	stmts, err := a.parser.Parse(path, content)
	if err != nil {
		slog.Debug("parse failed, analysing as empty file", "path", path, "error", err)
		stmts = nil
	}

	violations := rules.Analyse(source.New(path, content, stmts), a.enabled)

	observability.FilesAnalysedTotal.Inc()
	for _, v := range violations {
		observability.ViolationsTotal.WithLabelValues(v.Rule).Inc()
	}
	return violations
}
