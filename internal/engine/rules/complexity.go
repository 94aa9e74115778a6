package rules

import (
	"fmt"
	"phanalist/internal/engine/complexity"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
)

// concreteMethods returns the methods with a body of a class, trait or enum.
func concreteMethods(stmt ast.Stmt) []*ast.Method {
	switch stmt.(type) {
	case *ast.Class, *ast.Trait, *ast.Enum:
	default:
		return nil
	}
	var out []*ast.Method
	for _, method := range ast.Methods(ast.MembersOf(stmt)) {
		if method.HasBody {
			out = append(out, method)
		}
	}
	return out
}

type CyclomaticSettings struct {
	MaxComplexity int `json:"max_complexity" yaml:"max_complexity" toml:"max_complexity"`
}

// CyclomaticComplexity (E0009) flags method bodies whose complexity graph
// scores above the limit.
type CyclomaticComplexity struct {
	Base
	settings CyclomaticSettings
}

func NewCyclomaticComplexity() *CyclomaticComplexity {
	return &CyclomaticComplexity{
		Base:     NewBase("E0009", "Cyclomatic complexity"),
		settings: CyclomaticSettings{MaxComplexity: 10},
	}
}

func (r *CyclomaticComplexity) Configure(settings any) {
	decodeSettings(r.Code(), settings, &r.settings)
}

func (r *CyclomaticComplexity) Settings() any { return r.settings }

func (r *CyclomaticComplexity) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var out []results.Violation
	for _, method := range concreteMethods(stmt) {
		score := complexity.Cyclomatic(method.Statements).Score()
		if score > r.settings.MaxComplexity {
			out = append(out, r.NewViolation(file,
				fmt.Sprintf("The body of %s method has %d complexity. Make it easier to understand.", method.Name, score),
				method.Span))
		}
	}
	return out
}

type PathSettings struct {
	MaxPaths int `json:"max_paths" yaml:"max_paths" toml:"max_paths"`
}

// PathComplexity (E0010) flags method bodies with too many branch edges.
type PathComplexity struct {
	Base
	settings PathSettings
}

func NewPathComplexity() *PathComplexity {
	return &PathComplexity{
		Base:     NewBase("E0010", "Npath complexity"),
		settings: PathSettings{MaxPaths: 200},
	}
}

func (r *PathComplexity) Configure(settings any) {
	decodeSettings(r.Code(), settings, &r.settings)
}

func (r *PathComplexity) Settings() any { return r.settings }

func (r *PathComplexity) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var out []results.Violation
	for _, method := range concreteMethods(stmt) {
		paths := complexity.PathCount(method.Statements)
		if paths > r.settings.MaxPaths {
			out = append(out, r.NewViolation(file,
				fmt.Sprintf("The body of %s method has %d paths. Reduce the amount of paths.", method.Name, paths),
				method.Span))
		}
	}
	return out
}
