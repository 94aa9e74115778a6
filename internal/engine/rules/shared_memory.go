package rules

import (
	"phanalist/internal/engine/flatten"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/source"
	"strings"
)

const (
	mutablePropertyMessage       = "Properties in service must be immutable. Violating Shared Memory Model."
	mutableStaticPropertyMessage = "Static properties in service must be immutable. Violating Shared Memory Model."
)

type SharedMemorySettings struct {
	IncludeNamespaces []string `json:"include_namespaces" yaml:"include_namespaces" toml:"include_namespaces"`
	ExcludeNamespaces []string `json:"exclude_namespaces" yaml:"exclude_namespaces" toml:"exclude_namespaces"`
	ResetInterfaces   []string `json:"reset_interfaces" yaml:"reset_interfaces" toml:"reset_interfaces"`
}

// SharedMemory (E0012) flags services that mutate their own state outside
// the constructor. Long-running workers share one service instance across
// requests, so such state leaks between them.
type SharedMemory struct {
	Base
	settings SharedMemorySettings
}

func NewSharedMemory() *SharedMemory {
	return &SharedMemory{
		Base: NewBase("E0012", "Service compatibility with Shared Memory Model"),
		settings: SharedMemorySettings{
			IncludeNamespaces: []string{`App\Service\`, `App\Controller\`},
			ExcludeNamespaces: []string{},
			ResetInterfaces:   []string{"ResetInterface"},
		},
	}
}

func (r *SharedMemory) Configure(settings any) {
	decodeSettings(r.Code(), settings, &r.settings)
}

func (r *SharedMemory) Settings() any { return r.settings }

func (r *SharedMemory) ShouldValidate(file *source.File) bool {
	fqn, ok := file.FullyQualifiedName()
	return NamespaceFilter(fqn, ok, r.settings.IncludeNamespaces, r.settings.ExcludeNamespaces)
}

func (r *SharedMemory) Validate(file *File, stmt ast.Stmt) []results.Violation {
	class, ok := stmt.(*ast.Class)
	if !ok || r.resettable(class) {
		return nil
	}

	w := &mutationWalker{rule: r, file: file}
	for _, method := range ast.Methods(class.Members) {
		if !method.HasBody || method.IsConstructor() {
			continue
		}
		for _, s := range flatten.Statements(method.Statements) {
			switch s := s.(type) {
			case *ast.ExpressionStmt:
				w.expr(s.Expr)
			case *ast.Return:
				w.expr(s.Value)
			}
		}
	}
	return w.out
}

func (r *SharedMemory) resettable(class *ast.Class) bool {
	for _, iface := range class.Implements {
		for _, reset := range r.settings.ResetInterfaces {
			if reset != "" && strings.HasSuffix(iface, reset) {
				return true
			}
		}
	}
	return false
}

type mutationWalker struct {
	rule *SharedMemory
	file *File
	out  []results.Violation
}

func (w *mutationWalker) exprs(exprs []ast.Expr) {
	for _, e := range exprs {
		w.expr(e)
	}
}

func (w *mutationWalker) expr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		w.target(e.Left)
		w.expr(e.Right)
	case *ast.Unary:
		if e.IsIncDec() {
			w.target(e.Operand)
		}
		w.expr(e.Operand)
	case *ast.Binary:
		w.expr(e.Left)
		w.expr(e.Right)
	case *ast.Ternary:
		w.expr(e.Condition)
		w.expr(e.Then)
		w.expr(e.Else)
	case *ast.Paren:
		w.expr(e.Inner)
	case *ast.MethodCall:
		w.expr(e.Object)
		w.exprs(e.Args)
	case *ast.StaticCall:
		w.exprs(e.Args)
	case *ast.FunctionCall:
		w.exprs(e.Args)
	case *ast.New:
		w.exprs(e.Args)
	case *ast.Literal:
		w.exprs(e.Elements)
	case *ast.OtherExpr:
		w.exprs(e.Children)
	}
}

// target reports writes to `$this->prop` and to static properties,
// including writes to their array elements.
func (w *mutationWalker) target(expr ast.Expr) {
	for {
		sub, ok := expr.(*ast.OtherExpr)
		if !ok || sub.Kind != "subscript_expression" || len(sub.Children) == 0 {
			break
		}
		expr = sub.Children[0]
	}
	switch e := expr.(type) {
	case *ast.PropertyFetch:
		if v, ok := e.Object.(*ast.Variable); ok && v.IsThis() {
			w.out = append(w.out, w.rule.NewViolation(w.file, mutablePropertyMessage, e.Span))
		}
	case *ast.StaticPropertyFetch:
		w.out = append(w.out, w.rule.NewViolation(w.file, mutableStaticPropertyMessage, e.Span))
	}
}
