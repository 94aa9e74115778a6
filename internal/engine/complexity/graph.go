// Package complexity folds a method body into approximate cyclomatic and
// path-count scores.
//
// Both metrics are coarse. Switch arms, boolean short-circuit operators and
// ternaries are not counted, and the path count is an edge tally rather than
// a product of decision paths. Configured thresholds depend on these exact
// numbers.
package complexity

import "phanalist/internal/engine/php/ast"

// Graph accumulates the counters of one method body. Counters only grow.
type Graph struct {
	Nodes      int
	Edges      int
	ExitPoints int
}

// Score is nodes - edges + 2*exit points.
func (g *Graph) Score() int {
	return g.Nodes - g.Edges + 2*g.ExitPoints
}

// Cyclomatic builds the cyclomatic graph of a statement list.
func Cyclomatic(stmts []ast.Stmt) *Graph {
	g := &Graph{}
	g.AddCyclomatic(stmts)
	return g
}

// AddCyclomatic accumulates stmts into g. Statements are consumed from the
// end; every operation is an increment so order does not matter.
func (g *Graph) AddCyclomatic(stmts []ast.Stmt) {
	for i := len(stmts) - 1; i >= 0; i-- {
		switch s := stmts[i].(type) {
		case *ast.If:
			g.Nodes++
			if body, delimited := s.Body.Delimited(); delimited {
				g.AddCyclomatic(body)
				continue
			}
			// A bare statement body counts as an extra branch node.
			g.Nodes++
			g.AddCyclomatic(s.Body.Stmts())
			for _, elseIf := range s.ElseIfs {
				g.AddCyclomatic(elseIf.Body.Stmts())
			}
			if s.Else != nil {
				g.AddCyclomatic(s.Else.Body.Stmts())
			}
		case *ast.While:
			g.Nodes++
			g.AddCyclomatic(s.Body.Stmts())
		case *ast.Block:
			g.AddCyclomatic(s.Statements)
		default:
			g.Edges++
		}
	}
}

// PathCount returns the edge tally of a statement list: one per if and one
// per while, however deeply nested.
func PathCount(stmts []ast.Stmt) int {
	g := &Graph{}
	g.AddPaths(stmts)
	return g.Edges
}

// AddPaths accumulates the path-count edges of stmts into g.
func (g *Graph) AddPaths(stmts []ast.Stmt) {
	for i := len(stmts) - 1; i >= 0; i-- {
		switch s := stmts[i].(type) {
		case *ast.If:
			g.Edges++
			g.AddPaths(s.Body.Stmts())
			for _, elseIf := range s.ElseIfs {
				g.AddPaths(elseIf.Body.Stmts())
			}
			if s.Else != nil {
				g.AddPaths(s.Else.Body.Stmts())
			}
		case *ast.While:
			g.Edges++
			g.AddPaths(s.Body.Stmts())
		case *ast.Block:
			g.AddPaths(s.Statements)
		}
	}
}
