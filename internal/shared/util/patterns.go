package util

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// PathPatterns matches exclude patterns against paths. A pattern without a
// slash matches the base name ("vendor", "*.test.php"). A pattern with one
// matches the trailing segments of the path, so "tests/fixtures" excludes
// every fixtures directory directly under a tests directory.
type PathPatterns struct {
	base     []glob.Glob
	anchored []glob.Glob
}

func CompilePathPatterns(patterns []string) (*PathPatterns, error) {
	pp := &PathPatterns{}
	for _, raw := range patterns {
		norm := NormalizePatternPath(raw)
		if norm == "" {
			continue
		}
		if !strings.Contains(norm, "/") {
			g, err := glob.Compile(norm)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", raw, err)
			}
			pp.base = append(pp.base, g)
			continue
		}
		if !strings.HasPrefix(norm, "/") && !strings.HasPrefix(norm, "**") {
			norm = "**/" + norm
		}
		g, err := glob.Compile(norm, '/')
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", raw, err)
		}
		pp.anchored = append(pp.anchored, g)
	}
	return pp, nil
}

// Match reports whether any pattern matches p. A nil receiver matches nothing.
func (pp *PathPatterns) Match(p string) bool {
	if pp == nil {
		return false
	}
	norm := NormalizePatternPath(p)
	if norm == "" {
		return false
	}
	base := path.Base(norm)
	for _, g := range pp.base {
		if g.Match(base) {
			return true
		}
	}
	if len(pp.anchored) == 0 {
		return false
	}
	rooted := "/" + strings.TrimPrefix(norm, "/")
	for _, g := range pp.anchored {
		if g.Match(rooted) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (pp *PathPatterns) Len() int {
	if pp == nil {
		return 0
	}
	return len(pp.base) + len(pp.anchored)
}
