package rules

import (
	"fmt"
	"phanalist/internal/engine/demeter"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
)

// LawOfDemeter (E0014) flags method calls chained onto objects that are
// not the declaration itself.
type LawOfDemeter struct {
	Always
}

func NewLawOfDemeter() *LawOfDemeter {
	return &LawOfDemeter{Always{NewBase("E0014",
		"Law of Demeter violation. Method chaining should be avoided unless returning the same object type.")}}
}

func (r *LawOfDemeter) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var name string
	switch decl := stmt.(type) {
	case *ast.Class:
		name = decl.Name
	case *ast.Trait:
		name = decl.Name
	default:
		return nil
	}

	members := ast.MembersOf(stmt)
	methods := file.Types().Merged(name, members)

	var out []results.Violation
	for _, method := range ast.Methods(members) {
		if !method.HasBody {
			continue
		}
		for _, f := range demeter.CheckMethod(name, methods, method.Statements) {
			out = append(out, r.NewViolation(file, demeterMessage(f), f.Span))
		}
	}
	return out
}

func demeterMessage(f demeter.Finding) string {
	if f.Receiver == nil {
		return fmt.Sprintf("Law of Demeter violation. Method '%s' is called on an object of unknown type (possible foreign object).", f.Method)
	}
	return fmt.Sprintf("Law of Demeter violation. Method '%s' is called on '%s', which is a foreign object.", f.Method, f.Receiver)
}
