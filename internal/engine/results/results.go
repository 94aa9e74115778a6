// Package results holds rule violations and the per-scan aggregate.
package results

import (
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/shared/util"
	"time"
)

// Violation is one reported issue. Line holds the source text of the
// offending line.
type Violation struct {
	Rule       string   `json:"rule"`
	Line       string   `json:"line"`
	Suggestion string   `json:"suggestion"`
	Span       ast.Span `json:"span"`
}

// Results aggregates the violations of one scan. Files without violations
// are counted but not stored.
type Results struct {
	Files           map[string][]Violation
	CodesCount      map[string]int
	TotalFilesCount int
	Duration        time.Duration
}

func New() *Results {
	return &Results{
		Files:      make(map[string][]Violation),
		CodesCount: make(map[string]int),
	}
}

// AddFile records the violations of one analysed file.
func (r *Results) AddFile(path string, violations []Violation) {
	r.TotalFilesCount++
	if len(violations) == 0 {
		return
	}
	r.Files[path] = append(r.Files[path], violations...)
	for _, v := range violations {
		r.CodesCount[v.Rule]++
	}
}

func (r *Results) HasAnyViolations() bool {
	return len(r.Files) > 0
}

// TotalViolations returns the number of violations across all files.
func (r *Results) TotalViolations() int {
	total := 0
	for _, count := range r.CodesCount {
		total += count
	}
	return total
}

// Paths returns the paths with violations in lexical order.
func (r *Results) Paths() []string {
	return util.SortedStringKeys(r.Files)
}

// Codes returns the rule codes with at least one violation, sorted.
func (r *Results) Codes() []string {
	return util.SortedStringKeys(r.CodesCount)
}
