package parser

import (
	"phanalist/internal/engine/php/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func (c *converter) openingTag(node *sitter.Node) ast.Stmt {
	return &ast.OpeningTag{Text: c.text(node), Span: c.span(node)}
}

func (c *converter) inlineHTML(node *sitter.Node) ast.Stmt {
	return &ast.InlineHTML{Text: c.text(node), Span: c.span(node)}
}

func (c *converter) block(node *sitter.Node) ast.Stmt {
	return &ast.Block{Statements: c.statements(node), Span: c.span(node)}
}

func (c *converter) expressionStatement(node *sitter.Node) ast.Stmt {
	children := namedChildren(node)
	if len(children) == 0 {
		return &ast.OtherStmt{Kind: "empty_statement", Span: c.span(node)}
	}
	return &ast.ExpressionStmt{Expr: c.expr(children[0]), Span: c.span(node)}
}

func (c *converter) returnStatement(node *sitter.Node) ast.Stmt {
	ret := &ast.Return{Span: c.span(node)}
	if children := namedChildren(node); len(children) > 0 {
		ret.Value = c.expr(children[0])
	}
	return ret
}

func (c *converter) echoStatement(node *sitter.Node) ast.Stmt {
	echo := &ast.Echo{Span: c.span(node)}
	for _, child := range namedChildren(node) {
		echo.Values = append(echo.Values, c.exprList(child)...)
	}
	return echo
}

// condition unwraps the parentheses around a control-flow condition.
func (c *converter) condition(node *sitter.Node) ast.Expr {
	if node == nil {
		return nil
	}
	if node.Kind() == "parenthesized_expression" {
		if children := namedChildren(node); len(children) > 0 {
			return c.expr(children[0])
		}
	}
	return c.expr(node)
}

func (c *converter) ifBody(node *sitter.Node) ast.IfBody {
	if node == nil {
		return ast.IfBody{}
	}
	if node.Kind() == "colon_block" {
		return ast.IfBody{Colon: true, Statements: c.statements(node)}
	}
	return ast.IfBody{Statement: c.statement(node)}
}

// clauseBody returns the body of an elseif/else clause. Grammar releases
// without a colon_block wrapper put the colon-form statements directly in
// the clause.
func (c *converter) clauseBody(clause *sitter.Node) ast.IfBody {
	if body := clause.ChildByFieldName("body"); body != nil {
		return c.ifBody(body)
	}
	cond := clause.ChildByFieldName("condition")
	var stmts []ast.Stmt
	for _, child := range namedChildren(clause) {
		if sameNode(child, cond) {
			continue
		}
		if stmt := c.statement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if hasToken(clause, ":") {
		return ast.IfBody{Colon: true, Statements: stmts}
	}
	if len(stmts) > 0 {
		return ast.IfBody{Statement: stmts[0]}
	}
	return ast.IfBody{}
}

func (c *converter) ifStatement(node *sitter.Node) ast.Stmt {
	stmt := &ast.If{
		Condition: c.condition(node.ChildByFieldName("condition")),
		Span:      c.span(node),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		stmt.Body = c.ifBody(body)
	}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "else_if_clause":
			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{
				Condition: c.condition(child.ChildByFieldName("condition")),
				Body:      c.clauseBody(child),
				Span:      c.span(child),
			})
		case "else_clause":
			stmt.Else = &ast.Else{Body: c.clauseBody(child), Span: c.span(child)}
		}
	}
	return stmt
}

// loopBody extracts the body of while/for/foreach loops in all three forms:
// single statement, `;`, and `: ... endX;`.
func (c *converter) loopBody(node *sitter.Node, header ...*sitter.Node) ast.LoopBody {
	if body := node.ChildByFieldName("body"); body != nil {
		if body.Kind() == "colon_block" {
			return ast.LoopBody{Colon: true, Statements: c.statements(body)}
		}
		return ast.LoopBody{Statement: c.statement(body)}
	}
	var stmts []ast.Stmt
	for _, child := range namedChildren(node) {
		if isHeader(child, header) || !isStatementKind(child.Kind()) {
			continue
		}
		if stmt := c.statement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if hasToken(node, ":") {
		return ast.LoopBody{Colon: true, Statements: stmts}
	}
	if len(stmts) > 0 {
		return ast.LoopBody{Statement: stmts[0]}
	}
	return ast.LoopBody{}
}

func isStatementKind(kind string) bool {
	if _, ok := stmtHandlers[kind]; ok {
		return kind != "php_tag" && kind != "text"
	}
	return strings.HasSuffix(kind, "_statement")
}

func isHeader(node *sitter.Node, header []*sitter.Node) bool {
	for _, h := range header {
		if sameNode(node, h) {
			return true
		}
	}
	return false
}

func (c *converter) whileStatement(node *sitter.Node) ast.Stmt {
	cond := node.ChildByFieldName("condition")
	return &ast.While{
		Condition: c.condition(cond),
		Body:      c.loopBody(node, cond),
		Span:      c.span(node),
	}
}

func (c *converter) doStatement(node *sitter.Node) ast.Stmt {
	return &ast.DoWhile{
		Body:      c.statement(node.ChildByFieldName("body")),
		Condition: c.condition(node.ChildByFieldName("condition")),
		Span:      c.span(node),
	}
}

func (c *converter) forStatement(node *sitter.Node) ast.Stmt {
	stmt := &ast.For{Span: c.span(node)}
	var header []*sitter.Node
	for _, field := range []string{"initialize", "condition", "update", "increment"} {
		part := node.ChildByFieldName(field)
		if part == nil {
			continue
		}
		header = append(header, part)
		exprs := c.exprList(part)
		switch field {
		case "initialize":
			stmt.Init = exprs
		case "condition":
			stmt.Condition = exprs
		default:
			stmt.Update = exprs
		}
	}
	stmt.Body = c.loopBody(node, header...)
	return stmt
}

func (c *converter) foreachStatement(node *sitter.Node) ast.Stmt {
	stmt := &ast.Foreach{Span: c.span(node)}
	body := node.ChildByFieldName("body")
	var header []*sitter.Node
	for _, child := range namedChildren(node) {
		if sameNode(child, body) {
			continue
		}
		if len(header) == 2 {
			break
		}
		header = append(header, child)
	}
	if len(header) > 0 {
		stmt.Subject = c.expr(header[0])
	}
	if len(header) > 1 {
		target := header[1]
		if target.Kind() == "pair" {
			parts := namedChildren(target)
			if len(parts) == 2 {
				stmt.Key = c.expr(parts[0])
				stmt.Value = c.expr(parts[1])
			}
		} else {
			stmt.Value = c.expr(target)
		}
	}
	stmt.Body = c.loopBody(node, header...)
	return stmt
}

func (c *converter) switchStatement(node *sitter.Node) ast.Stmt {
	stmt := &ast.Switch{
		Subject: c.condition(node.ChildByFieldName("condition")),
		Span:    c.span(node),
	}
	block := node.ChildByFieldName("body")
	if block == nil {
		block = firstOfKind(node, "switch_block")
	}
	for _, arm := range childrenOfKind(block, "case_statement", "default_statement") {
		kase := &ast.Case{Default: arm.Kind() == "default_statement", Span: c.span(arm)}
		value := arm.ChildByFieldName("value")
		if value != nil {
			kase.Value = c.expr(value)
		}
		for _, child := range namedChildren(arm) {
			if sameNode(child, value) {
				continue
			}
			if s := c.statement(child); s != nil {
				kase.Statements = append(kase.Statements, s)
			}
		}
		stmt.Cases = append(stmt.Cases, kase)
	}
	return stmt
}

func (c *converter) tryStatement(node *sitter.Node) ast.Stmt {
	stmt := &ast.Try{
		Statements: c.statements(node.ChildByFieldName("body")),
		Span:       c.span(node),
	}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "catch_clause":
			catch := &ast.Catch{
				Variable:   c.text(child.ChildByFieldName("name")),
				Statements: c.statements(child.ChildByFieldName("body")),
				Span:       c.span(child),
			}
			if types := child.ChildByFieldName("type"); types != nil {
				for _, t := range namedChildren(types) {
					catch.Types = append(catch.Types, c.text(t))
				}
				if len(catch.Types) == 0 {
					catch.Types = []string{c.text(types)}
				}
			}
			stmt.Catches = append(stmt.Catches, catch)
		case "finally_clause":
			stmt.Finally = &ast.Finally{
				Statements: c.statements(child.ChildByFieldName("body")),
				Span:       c.span(child),
			}
		}
	}
	return stmt
}

func (c *converter) namespaceDefinition(node *sitter.Node) ast.Stmt {
	ns := &ast.Namespace{
		Name: strings.TrimPrefix(c.text(node.ChildByFieldName("name")), `\`),
		Span: c.span(node),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		ns.Braced = true
		ns.Statements = c.statements(body)
	}
	return ns
}

func (c *converter) useDeclaration(node *sitter.Node) ast.Stmt {
	use := &ast.Use{Span: c.span(node)}
	for _, clause := range namedChildren(node) {
		switch clause.Kind() {
		case "namespace_use_clause":
			if name := firstOfKind(clause, "qualified_name", "name"); name != nil {
				use.Names = append(use.Names, c.text(name))
			}
		case "namespace_use_group":
			prefix := ""
			if ns := firstOfKind(node, "namespace_name"); ns != nil {
				prefix = c.text(ns) + `\`
			}
			for _, item := range namedChildren(clause) {
				if name := firstOfKind(item, "qualified_name", "name", "namespace_name"); name != nil {
					use.Names = append(use.Names, prefix+c.text(name))
				}
			}
		}
	}
	return use
}

func (c *converter) functionDefinition(node *sitter.Node) ast.Stmt {
	return &ast.Function{
		Name:       c.text(node.ChildByFieldName("name")),
		Params:     c.params(node.ChildByFieldName("parameters")),
		ReturnType: c.typeHint(node.ChildByFieldName("return_type")),
		Statements: c.statements(node.ChildByFieldName("body")),
		Span:       c.span(node),
	}
}

func (c *converter) constDeclaration(node *sitter.Node) ast.Stmt {
	return &ast.ConstDecl{Items: c.constItems(node), Span: c.span(node)}
}
