package parser

import (
	"phanalist/internal/engine/php/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func literal(kind ast.LiteralKind) exprHandler {
	return func(c *converter, node *sitter.Node) ast.Expr {
		return &ast.Literal{Kind: kind, Raw: c.text(node), Span: c.span(node)}
	}
}

// arrayLiteral keeps the element expressions of `[...]` and `array(...)`.
func (c *converter) arrayLiteral(node *sitter.Node) ast.Expr {
	lit := &ast.Literal{Kind: ast.LitArray, Raw: c.text(node), Span: c.span(node)}
	for _, elem := range namedChildren(node) {
		parts := []*sitter.Node{elem}
		if elem.Kind() == "array_element_initializer" {
			parts = namedChildren(elem)
		}
		for _, part := range parts {
			if e := c.expr(part); e != nil {
				lit.Elements = append(lit.Elements, e)
			}
		}
	}
	return lit
}

func (c *converter) parenthesized(node *sitter.Node) ast.Expr {
	return &ast.Paren{Inner: c.expr(firstNamed(node)), Span: c.span(node)}
}

func (c *converter) variable(node *sitter.Node) ast.Expr {
	return &ast.Variable{Name: c.text(node), Span: c.span(node)}
}

func (c *converter) name(node *sitter.Node) ast.Expr {
	return &ast.Name{Value: strings.TrimPrefix(c.text(node), `\`), Span: c.span(node)}
}

// args converts an `arguments` node. Named arguments keep only their value.
func (c *converter) args(node *sitter.Node) []ast.Expr {
	var out []ast.Expr
	for _, arg := range namedChildren(node) {
		if arg.Kind() != "argument" {
			if arg.Kind() != "variadic_placeholder" {
				out = append(out, c.expr(arg))
			}
			continue
		}
		parts := namedChildren(arg)
		if len(parts) == 0 {
			continue
		}
		out = append(out, c.expr(parts[len(parts)-1]))
	}
	return out
}

// memberName returns the method or property name of an access node. Dynamic
// names (`$obj->$name`) keep their source text.
func (c *converter) memberName(node *sitter.Node) string {
	return c.text(node.ChildByFieldName("name"))
}

func (c *converter) objectCreation(node *sitter.Node) ast.Expr {
	expr := &ast.New{Span: c.span(node)}
	if hasToken(node, "class") {
		// new class(...) { ... }
		expr.Class = &ast.OtherExpr{Kind: "anonymous_class", Span: c.span(node)}
		if args := firstOfKind(node, "arguments"); args != nil {
			expr.Args = c.args(args)
		}
		return expr
	}
	for _, child := range childrenWithoutAttributes(node) {
		if child.Kind() == "arguments" {
			expr.Args = c.args(child)
			continue
		}
		if expr.Class == nil {
			expr.Class = c.expr(child)
		}
	}
	return expr
}

func (c *converter) memberCall(node *sitter.Node) ast.Expr {
	return &ast.MethodCall{
		Object:   c.expr(node.ChildByFieldName("object")),
		Method:   c.memberName(node),
		Args:     c.args(node.ChildByFieldName("arguments")),
		NullSafe: node.Kind() == "nullsafe_member_call_expression",
		Span:     c.span(node),
	}
}

func (c *converter) scopedCall(node *sitter.Node) ast.Expr {
	return &ast.StaticCall{
		Class:  c.expr(node.ChildByFieldName("scope")),
		Method: c.memberName(node),
		Args:   c.args(node.ChildByFieldName("arguments")),
		Span:   c.span(node),
	}
}

func (c *converter) functionCall(node *sitter.Node) ast.Expr {
	return &ast.FunctionCall{
		Function: c.expr(node.ChildByFieldName("function")),
		Args:     c.args(node.ChildByFieldName("arguments")),
		Span:     c.span(node),
	}
}

func (c *converter) memberAccess(node *sitter.Node) ast.Expr {
	return &ast.PropertyFetch{
		Object:   c.expr(node.ChildByFieldName("object")),
		Property: c.memberName(node),
		NullSafe: node.Kind() == "nullsafe_member_access_expression",
		Span:     c.span(node),
	}
}

func (c *converter) scopedPropertyAccess(node *sitter.Node) ast.Expr {
	return &ast.StaticPropertyFetch{
		Class:    c.expr(node.ChildByFieldName("scope")),
		Property: c.memberName(node),
		Span:     c.span(node),
	}
}

func (c *converter) classConstantAccess(node *sitter.Node) ast.Expr {
	parts := namedChildren(node)
	expr := &ast.ClassConstFetch{Span: c.span(node)}
	if len(parts) > 0 {
		expr.Class = c.expr(parts[0])
	}
	if len(parts) > 1 {
		expr.Constant = c.text(parts[len(parts)-1])
	}
	return expr
}

func (c *converter) assignment(node *sitter.Node) ast.Expr {
	op := "="
	switch node.Kind() {
	case "reference_assignment_expression":
		op = "=&"
	case "augmented_assignment_expression":
		op = c.text(node.ChildByFieldName("operator"))
	}
	return &ast.Assign{
		Left:  c.expr(node.ChildByFieldName("left")),
		Op:    op,
		Right: c.expr(node.ChildByFieldName("right")),
		Span:  c.span(node),
	}
}

func (c *converter) binary(node *sitter.Node) ast.Expr {
	return &ast.Binary{
		Left:  c.expr(node.ChildByFieldName("left")),
		Op:    c.text(node.ChildByFieldName("operator")),
		Right: c.expr(node.ChildByFieldName("right")),
		Span:  c.span(node),
	}
}

func (c *converter) conditional(node *sitter.Node) ast.Expr {
	ternary := &ast.Ternary{
		Condition: c.expr(node.ChildByFieldName("condition")),
		Else:      c.expr(node.ChildByFieldName("alternative")),
		Span:      c.span(node),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		ternary.Then = c.expr(body)
	}
	return ternary
}

// operatorToken returns the first anonymous child, which is the operator of
// unary and update expressions.
func (c *converter) operatorToken(node *sitter.Node) (string, bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !child.IsNamed() {
			return c.text(child), i == 0
		}
	}
	return "", false
}

func (c *converter) unary(node *sitter.Node) ast.Expr {
	op, _ := c.operatorToken(node)
	if operator := node.ChildByFieldName("operator"); operator != nil {
		op = c.text(operator)
	}
	return &ast.Unary{Op: op, Operand: c.expr(firstNamed(node)), Span: c.span(node)}
}

func (c *converter) update(node *sitter.Node) ast.Expr {
	op, prefix := c.operatorToken(node)
	return &ast.Unary{
		Op:      op,
		Operand: c.expr(firstNamed(node)),
		Postfix: !prefix,
		Span:    c.span(node),
	}
}

func (c *converter) cast(node *sitter.Node) ast.Expr {
	value := node.ChildByFieldName("value")
	if value == nil {
		parts := namedChildren(node)
		if len(parts) > 0 {
			value = parts[len(parts)-1]
		}
	}
	return &ast.Unary{
		Op:      "(" + strings.ToLower(c.text(node.ChildByFieldName("type"))) + ")",
		Operand: c.expr(value),
		Span:    c.span(node),
	}
}

func (c *converter) closure(node *sitter.Node) ast.Expr {
	return &ast.Closure{
		Params:     c.params(node.ChildByFieldName("parameters")),
		ReturnType: c.typeHint(node.ChildByFieldName("return_type")),
		Statements: c.statements(node.ChildByFieldName("body")),
		Span:       c.span(node),
	}
}

// arrowFunction wraps the arrow body in a return statement so that the
// closure body is a statement list like any other function body.
func (c *converter) arrowFunction(node *sitter.Node) ast.Expr {
	closure := &ast.Closure{
		Params:     c.params(node.ChildByFieldName("parameters")),
		ReturnType: c.typeHint(node.ChildByFieldName("return_type")),
		Arrow:      true,
		Span:       c.span(node),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		closure.Statements = []ast.Stmt{&ast.Return{Value: c.expr(body), Span: c.span(body)}}
	}
	return closure
}
