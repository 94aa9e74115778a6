package complexity

import (
	"phanalist/internal/engine/php/ast"
	"testing"
)

func leaf() ast.Stmt {
	return &ast.ExpressionStmt{Expr: &ast.FunctionCall{Function: &ast.Name{Value: "f"}}}
}

func braced(stmts ...ast.Stmt) ast.IfBody {
	return ast.IfBody{Statement: &ast.Block{Statements: stmts}}
}

// nestedIfs builds depth braced ifs, the innermost holding one leaf.
func nestedIfs(depth int) ast.Stmt {
	inner := leaf()
	for i := 0; i < depth; i++ {
		inner = &ast.If{Body: braced(inner)}
	}
	return inner
}

func TestCyclomatic_SingleExpression(t *testing.T) {
	g := Cyclomatic([]ast.Stmt{leaf()})
	if g.Nodes != 0 || g.Edges != 1 {
		t.Fatalf("expected nodes=0 edges=1, got nodes=%d edges=%d", g.Nodes, g.Edges)
	}
	if g.Score() != -1 {
		t.Fatalf("expected score -1, got %d", g.Score())
	}
}

func TestCyclomatic_FiveNestedIfs(t *testing.T) {
	g := Cyclomatic([]ast.Stmt{nestedIfs(5)})
	if g.Nodes != 5 {
		t.Fatalf("expected one node per if, got %d", g.Nodes)
	}
	if g.Edges != 1 {
		t.Fatalf("expected one edge for the leaf, got %d", g.Edges)
	}
	if g.Score() != 4 {
		t.Fatalf("expected score 4, got %d", g.Score())
	}
}

func TestCyclomatic_BareIfCountsExtraNodeAndElse(t *testing.T) {
	stmt := &ast.If{
		Body:    ast.IfBody{Statement: leaf()},
		ElseIfs: []*ast.ElseIf{{Body: ast.IfBody{Statement: leaf()}}},
		Else:    &ast.Else{Body: ast.IfBody{Statement: leaf()}},
	}
	g := Cyclomatic([]ast.Stmt{stmt})
	if g.Nodes != 2 || g.Edges != 3 {
		t.Fatalf("expected nodes=2 edges=3, got nodes=%d edges=%d", g.Nodes, g.Edges)
	}
}

func TestCyclomatic_DelimitedIfIgnoresElse(t *testing.T) {
	stmt := &ast.If{
		Body: braced(leaf()),
		Else: &ast.Else{Body: braced(leaf(), leaf())},
	}
	g := Cyclomatic([]ast.Stmt{stmt})
	if g.Nodes != 1 || g.Edges != 1 {
		t.Fatalf("expected nodes=1 edges=1, got nodes=%d edges=%d", g.Nodes, g.Edges)
	}

	colon := &ast.If{Body: ast.IfBody{Colon: true, Statements: []ast.Stmt{leaf(), leaf()}}}
	g = Cyclomatic([]ast.Stmt{colon})
	if g.Nodes != 1 || g.Edges != 2 {
		t.Fatalf("colon form: expected nodes=1 edges=2, got nodes=%d edges=%d", g.Nodes, g.Edges)
	}
}

func TestCyclomatic_WhileAndBlocks(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.While{Body: ast.LoopBody{Statement: &ast.Block{Statements: []ast.Stmt{leaf()}}}},
		&ast.Block{Statements: []ast.Stmt{leaf(), leaf()}},
		&ast.Foreach{Body: ast.LoopBody{Statement: leaf()}},
	}
	g := Cyclomatic(stmts)
	// The foreach is a leaf; its body is not entered.
	if g.Nodes != 1 || g.Edges != 4 {
		t.Fatalf("expected nodes=1 edges=4, got nodes=%d edges=%d", g.Nodes, g.Edges)
	}
}

func TestCyclomatic_MonotonicInNesting(t *testing.T) {
	prev := Cyclomatic([]ast.Stmt{nestedIfs(0)}).Score()
	for depth := 1; depth <= 12; depth++ {
		score := Cyclomatic([]ast.Stmt{nestedIfs(depth)}).Score()
		if score < prev {
			t.Fatalf("score decreased at depth %d: %d < %d", depth, score, prev)
		}
		prev = score
	}
	if prev != 11 {
		t.Fatalf("expected score 11 at depth 12, got %d", prev)
	}
}

func TestPathCount_OncePerIfAndWhile(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.If{
			Body:    braced(&ast.While{Body: ast.LoopBody{Statement: leaf()}}),
			ElseIfs: []*ast.ElseIf{{Body: braced(nestedIfs(1))}},
			Else:    &ast.Else{Body: braced(leaf())},
		},
		&ast.Block{Statements: []ast.Stmt{nestedIfs(2)}},
		&ast.Foreach{Body: ast.LoopBody{Statement: nestedIfs(3)}},
		leaf(),
	}
	// 1 outer if + 1 while + 1 if in elseif + 2 ifs in block; foreach is a no-op.
	if got := PathCount(stmts); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestPathCount_OrderIndependent(t *testing.T) {
	a := nestedIfs(2)
	b := &ast.While{Body: ast.LoopBody{Statement: nestedIfs(1)}}
	c := leaf()

	orders := [][]ast.Stmt{
		{a, b, c},
		{c, b, a},
		{b, a, c},
	}
	want := PathCount(orders[0])
	for _, order := range orders[1:] {
		if got := PathCount(order); got != want {
			t.Fatalf("order changed tally: %d != %d", got, want)
		}
	}
	if want != 4 {
		t.Fatalf("expected 4, got %d", want)
	}
}
