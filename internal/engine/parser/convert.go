package parser

import (
	"phanalist/internal/engine/php/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// stmtHandler converts one statement node kind.
type stmtHandler func(c *converter, node *sitter.Node) ast.Stmt

// exprHandler converts one expression node kind.
type exprHandler func(c *converter, node *sitter.Node) ast.Expr

// Populated in init to avoid an initialization cycle through the handlers.
var (
	stmtHandlers map[string]stmtHandler
	exprHandlers map[string]exprHandler
)

func init() {
	stmtHandlers = map[string]stmtHandler{
		"php_tag":                   (*converter).openingTag,
		"text":                      (*converter).inlineHTML,
		"compound_statement":        (*converter).block,
		"expression_statement":      (*converter).expressionStatement,
		"return_statement":          (*converter).returnStatement,
		"echo_statement":            (*converter).echoStatement,
		"if_statement":              (*converter).ifStatement,
		"while_statement":           (*converter).whileStatement,
		"do_statement":              (*converter).doStatement,
		"for_statement":             (*converter).forStatement,
		"foreach_statement":         (*converter).foreachStatement,
		"switch_statement":          (*converter).switchStatement,
		"try_statement":             (*converter).tryStatement,
		"namespace_definition":      (*converter).namespaceDefinition,
		"namespace_use_declaration": (*converter).useDeclaration,
		"function_definition":       (*converter).functionDefinition,
		"class_declaration":         (*converter).classDeclaration,
		"interface_declaration":     (*converter).interfaceDeclaration,
		"trait_declaration":         (*converter).traitDeclaration,
		"enum_declaration":          (*converter).enumDeclaration,
		"const_declaration":         (*converter).constDeclaration,
	}
	exprHandlers = map[string]exprHandler{
		"parenthesized_expression":           (*converter).parenthesized,
		"variable_name":                      (*converter).variable,
		"name":                               (*converter).name,
		"qualified_name":                     (*converter).name,
		"relative_scope":                     (*converter).name,
		"namespace_name":                     (*converter).name,
		"object_creation_expression":         (*converter).objectCreation,
		"member_call_expression":             (*converter).memberCall,
		"nullsafe_member_call_expression":    (*converter).memberCall,
		"scoped_call_expression":             (*converter).scopedCall,
		"function_call_expression":           (*converter).functionCall,
		"member_access_expression":           (*converter).memberAccess,
		"nullsafe_member_access_expression":  (*converter).memberAccess,
		"scoped_property_access_expression":  (*converter).scopedPropertyAccess,
		"class_constant_access_expression":   (*converter).classConstantAccess,
		"assignment_expression":              (*converter).assignment,
		"reference_assignment_expression":    (*converter).assignment,
		"augmented_assignment_expression":    (*converter).assignment,
		"binary_expression":                  (*converter).binary,
		"conditional_expression":             (*converter).conditional,
		"unary_op_expression":                (*converter).unary,
		"update_expression":                  (*converter).update,
		"cast_expression":                    (*converter).cast,
		"error_suppression_expression":       (*converter).unary,
		"integer":                            literal(ast.LitInt),
		"float":                              literal(ast.LitFloat),
		"string":                             literal(ast.LitString),
		"encapsed_string":                    literal(ast.LitString),
		"heredoc":                            literal(ast.LitString),
		"nowdoc":                             literal(ast.LitString),
		"boolean":                            literal(ast.LitBool),
		"null":                               literal(ast.LitNull),
		"array_creation_expression":          (*converter).arrayLiteral,
		"anonymous_function":                 (*converter).closure,
		"arrow_function":                     (*converter).arrowFunction,

		// Older grammar releases.
		"anonymous_function_creation_expression": (*converter).closure,
	}
}

// converter walks a tree-sitter PHP CST and builds ast nodes.
type converter struct {
	src []byte
}

func (c *converter) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.src[node.StartByte():node.EndByte()])
}

func (c *converter) span(node *sitter.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	pos := node.StartPosition()
	return ast.Span{
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Position: int(node.StartByte()),
	}
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// childrenOfKind returns the named children of node with one of the kinds.
func childrenOfKind(node *sitter.Node, kinds ...string) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(node) {
		for _, kind := range kinds {
			if child.Kind() == kind {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

func firstOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	if found := childrenOfKind(node, kinds...); len(found) > 0 {
		return found[0]
	}
	return nil
}

func firstNamed(node *sitter.Node) *sitter.Node {
	if children := namedChildren(node); len(children) > 0 {
		return children[0]
	}
	return nil
}

// childrenWithoutAttributes drops leading `#[...]` attribute lists.
func childrenWithoutAttributes(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(node) {
		if child.Kind() == "attribute_list" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// hasToken reports whether node has an anonymous child with the given text.
func hasToken(node *sitter.Node, token string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && strings.EqualFold(child.Kind(), token) {
			return true
		}
	}
	return false
}

// program converts the root node and attaches statements that follow an
// unbraced namespace declaration to that namespace.
func (c *converter) program(root *sitter.Node) []ast.Stmt {
	var stmts []ast.Stmt
	for _, child := range namedChildren(root) {
		if child.Kind() == "text_interpolation" {
			stmts = append(stmts, c.interpolation(child)...)
			continue
		}
		if stmt := c.statement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return groupNamespaces(stmts)
}

func groupNamespaces(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	var current *ast.Namespace
	for _, stmt := range stmts {
		if ns, ok := stmt.(*ast.Namespace); ok {
			current = nil
			if !ns.Braced {
				current = ns
			}
			out = append(out, ns)
			continue
		}
		if current != nil {
			current.Statements = append(current.Statements, stmt)
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// interpolation converts `?> text <?php` runs between statements.
func (c *converter) interpolation(node *sitter.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "text":
			out = append(out, c.inlineHTML(child))
		case "php_tag":
			out = append(out, c.openingTag(child))
		}
	}
	return out
}

// statement converts a statement node. Comments and tag switches yield nil.
func (c *converter) statement(node *sitter.Node) ast.Stmt {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "comment", "text_interpolation":
		return nil
	}
	if handler, ok := stmtHandlers[node.Kind()]; ok {
		return handler(c, node)
	}
	return &ast.OtherStmt{Kind: node.Kind(), Span: c.span(node)}
}

// statements converts every statement child of node in source order.
func (c *converter) statements(node *sitter.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, child := range namedChildren(node) {
		if stmt := c.statement(child); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

// expr converts an expression node.
func (c *converter) expr(node *sitter.Node) ast.Expr {
	if node == nil {
		return nil
	}
	if handler, ok := exprHandlers[node.Kind()]; ok {
		return handler(c, node)
	}
	other := &ast.OtherExpr{Kind: node.Kind(), Span: c.span(node)}
	for _, child := range namedChildren(node) {
		if e := c.expr(child); e != nil {
			other.Children = append(other.Children, e)
		}
	}
	return other
}

// exprList flattens sequence expressions (`a, b, c`) into a list.
func (c *converter) exprList(node *sitter.Node) []ast.Expr {
	if node == nil {
		return nil
	}
	if node.Kind() == "sequence_expression" {
		var out []ast.Expr
		for _, child := range namedChildren(node) {
			out = append(out, c.exprList(child)...)
		}
		return out
	}
	return []ast.Expr{c.expr(node)}
}
