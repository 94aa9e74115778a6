package ports

import (
	"phanalist/internal/data/history"
	"phanalist/internal/engine/php/ast"
	"time"
)

// CodeParser turns one PHP file into its statement list. A syntax error is
// reported together with a nil statement list.
type CodeParser interface {
	Parse(path string, content []byte) ([]ast.Stmt, error)
}

// HistoryStore abstracts snapshot persistence for trend reporting.
type HistoryStore interface {
	SaveSnapshot(snapshot history.Snapshot) error
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
	Latest(projectKey string) (history.Snapshot, bool, error)
	Close() error
}
