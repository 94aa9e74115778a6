// Package rules holds the rule contract, the rule registry and every
// built-in rule.
package rules

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"phanalist/internal/engine/demeter"
	"phanalist/internal/engine/flatten"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/source"
	"strings"
)

// Rule is one check. A rule keeps no state between statements other than
// its settings, which are set before any file is analysed.
type Rule interface {
	Code() string
	Description() string
	// Configure coerces a loosely-typed settings blob into the rule's
	// settings. A blob that does not fit leaves the settings unchanged.
	Configure(settings any)
	ShouldValidate(file *source.File) bool
	Validate(file *File, stmt ast.Stmt) []results.Violation
}

// Configurable is implemented by rules that have settings.
type Configurable interface {
	Settings() any
}

// File is the analysis context of one file. It is created per file and
// dropped with it; nothing in it is shared across files.
type File struct {
	*source.File

	types *demeter.Registry
}

func NewFile(f *source.File) *File {
	return &File{File: f}
}

// Types returns the file's type registry, building it on first use.
func (f *File) Types() *demeter.Registry {
	if f.types == nil {
		f.types = demeter.BuildRegistry(f.Statements)
	}
	return f.types
}

// Analyse runs every enabled rule over every flattened statement of src.
// Violations are ordered by rule, then by statement.
func Analyse(src *source.File, enabled []Rule) []results.Violation {
	file := NewFile(src)
	stmts := flatten.Statements(src.Statements)

	var out []results.Violation
	for _, rule := range enabled {
		if !rule.ShouldValidate(src) {
			continue
		}
		for _, stmt := range stmts {
			out = append(out, rule.Validate(file, stmt)...)
		}
	}
	return out
}

// Base carries the identity of a rule and its default behaviour.
type Base struct {
	code        string
	description string
}

func NewBase(code, description string) Base {
	return Base{code: code, description: description}
}

func (b Base) Code() string        { return b.code }
func (b Base) Description() string { return b.description }

// Configure ignores settings; rules with settings override it.
func (b Base) Configure(any) {}

// ShouldValidate accepts files with a resolvable fully-qualified name.
func (b Base) ShouldValidate(file *source.File) bool {
	_, ok := file.FullyQualifiedName()
	return ok
}

// NewViolation builds a violation of this rule. The line text is looked up
// from the file; spans past the end of the file get an empty line.
func (b Base) NewViolation(file *File, suggestion string, span ast.Span) results.Violation {
	return results.Violation{
		Rule:       b.code,
		Line:       file.Line(span.Line),
		Suggestion: suggestion,
		Span:       span,
	}
}

// Always is a Base for rules that apply to every file.
type Always struct {
	Base
}

func (Always) ShouldValidate(*source.File) bool { return true }

// NamespaceFilter reports whether a file with the given FQN passes the
// include and exclude lists. Entries match as substrings. A missing FQN only
// passes when there is no include list.
func NamespaceFilter(fqn string, ok bool, include, exclude []string) bool {
	if ok {
		for _, ns := range exclude {
			if strings.Contains(fqn, ns) {
				return false
			}
		}
	}
	if len(include) == 0 {
		return true
	}
	if !ok {
		return false
	}
	for _, ns := range include {
		if strings.Contains(fqn, ns) {
			return true
		}
	}
	return false
}

// decodeSettings coerces blob into *current through a JSON round trip.
// *current is only replaced when the whole blob decodes. Unknown keys are
// ignored with a warning.
func decodeSettings[T any](code string, blob any, current *T) {
	if blob == nil {
		return
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		slog.Warn("rule settings not encodable, keeping previous settings", "rule", code, "error", err)
		return
	}
	// Decode onto a deep copy so a failed decode cannot touch shared slices.
	var next T
	base, err := json.Marshal(current)
	if err == nil {
		err = json.Unmarshal(base, &next)
	}
	if err != nil {
		slog.Warn("rule settings not copyable, keeping previous settings", "rule", code, "error", err)
		return
	}
	if err := json.Unmarshal(raw, &next); err != nil {
		slog.Warn("rule settings rejected, keeping previous settings", "rule", code, "error", err)
		return
	}
	*current = next

	var strict T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&strict); err != nil {
		slog.Warn("ignoring unknown rule settings", "rule", code, "error", err)
	}
}
