// Package flatten turns a statement tree into a pre-order statement list so
// rules can inspect one uniform stream.
package flatten

import "phanalist/internal/engine/php/ast"

// Statement returns root followed by every statement nested in it, in
// source order. Function, closure and arrow-function bodies are separate
// scopes and are not entered.
func Statement(root ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	walk(root, &out)
	return out
}

// Statements flattens each statement of stmts in turn.
func Statements(stmts []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, stmt := range stmts {
		walk(stmt, &out)
	}
	return out
}

func walkAll(stmts []ast.Stmt, out *[]ast.Stmt) {
	for _, stmt := range stmts {
		walk(stmt, out)
	}
}

func walk(stmt ast.Stmt, out *[]ast.Stmt) {
	if stmt == nil {
		return
	}
	*out = append(*out, stmt)

	switch s := stmt.(type) {
	case *ast.Try:
		walkAll(s.Statements, out)
		for _, catch := range s.Catches {
			walkAll(catch.Statements, out)
		}
		if s.Finally != nil {
			walkAll(s.Finally.Statements, out)
		}
	case *ast.Class, *ast.Trait, *ast.Interface, *ast.Enum:
		for _, method := range ast.Methods(ast.MembersOf(s)) {
			walkAll(method.Statements, out)
		}
	case *ast.If:
		walkAll(s.Body.Stmts(), out)
		for _, elseIf := range s.ElseIfs {
			walkAll(elseIf.Body.Stmts(), out)
		}
		if s.Else != nil {
			walkAll(s.Else.Body.Stmts(), out)
		}
	case *ast.While:
		walkAll(s.Body.Stmts(), out)
	case *ast.DoWhile:
		walk(s.Body, out)
	case *ast.For:
		walkAll(s.Body.Stmts(), out)
	case *ast.Foreach:
		walkAll(s.Body.Stmts(), out)
	case *ast.Switch:
		for _, kase := range s.Cases {
			walkAll(kase.Statements, out)
		}
	case *ast.Block:
		walkAll(s.Statements, out)
	case *ast.Namespace:
		walkAll(s.Statements, out)
	}
}
