package parser

import (
	"phanalist/internal/engine/php/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var modifierKinds = map[string]bool{
	"visibility_modifier": true,
	"static_modifier":     true,
	"abstract_modifier":   true,
	"final_modifier":      true,
	"readonly_modifier":   true,
}

// modifiers collects the modifier keywords of a declaration. It also
// reports whether the `var` keyword was present.
func (c *converter) modifiers(node *sitter.Node) (ast.Modifiers, bool) {
	var mods ast.Modifiers
	isVar := false
	for _, child := range namedChildren(node) {
		if child.Kind() == "var_modifier" {
			isVar = true
			continue
		}
		if modifierKinds[child.Kind()] {
			mods = append(mods, ast.Modifier(strings.ToLower(c.text(child))))
		}
	}
	return mods, isVar
}

func (c *converter) names(nodes []*sitter.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, c.text(n))
	}
	return out
}

// clauseNames returns the type names listed in an extends/implements clause.
func (c *converter) clauseNames(node *sitter.Node, kind string) []string {
	clause := firstOfKind(node, kind)
	if clause == nil {
		return nil
	}
	return c.names(childrenOfKind(clause, "name", "qualified_name"))
}

func (c *converter) classDeclaration(node *sitter.Node) ast.Stmt {
	mods, _ := c.modifiers(node)
	class := &ast.Class{
		Name:       c.text(node.ChildByFieldName("name")),
		Modifiers:  mods,
		Implements: c.clauseNames(node, "class_interface_clause"),
		Members:    c.members(node.ChildByFieldName("body")),
		Span:       c.span(node),
	}
	if extends := c.clauseNames(node, "base_clause"); len(extends) > 0 {
		class.Extends = extends[0]
	}
	return class
}

func (c *converter) interfaceDeclaration(node *sitter.Node) ast.Stmt {
	return &ast.Interface{
		Name:    c.text(node.ChildByFieldName("name")),
		Extends: c.clauseNames(node, "base_clause"),
		Members: c.members(node.ChildByFieldName("body")),
		Span:    c.span(node),
	}
}

func (c *converter) traitDeclaration(node *sitter.Node) ast.Stmt {
	return &ast.Trait{
		Name:    c.text(node.ChildByFieldName("name")),
		Members: c.members(node.ChildByFieldName("body")),
		Span:    c.span(node),
	}
}

func (c *converter) enumDeclaration(node *sitter.Node) ast.Stmt {
	body := node.ChildByFieldName("body")
	if body == nil {
		body = firstOfKind(node, "enum_declaration_list")
	}
	return &ast.Enum{
		Name:       c.text(node.ChildByFieldName("name")),
		Implements: c.clauseNames(node, "class_interface_clause"),
		Members:    c.members(body),
		Span:       c.span(node),
	}
}

func (c *converter) members(body *sitter.Node) []ast.Member {
	var members []ast.Member
	for _, child := range namedChildren(body) {
		switch child.Kind() {
		case "method_declaration":
			members = append(members, c.method(child))
		case "property_declaration":
			members = append(members, c.property(child))
		case "const_declaration":
			mods, _ := c.modifiers(child)
			members = append(members, &ast.ClassConst{
				Modifiers: mods,
				Items:     c.constItems(child),
				Span:      c.span(child),
			})
		case "use_declaration":
			members = append(members, &ast.TraitUse{
				Traits: c.names(childrenOfKind(child, "name", "qualified_name")),
				Span:   c.span(child),
			})
		case "enum_case":
			ec := &ast.EnumCase{Span: c.span(child)}
			if parts := childrenWithoutAttributes(child); len(parts) > 0 {
				ec.Name = c.text(parts[0])
				if len(parts) > 1 {
					ec.Value = c.expr(parts[len(parts)-1])
				}
			}
			members = append(members, ec)
		}
	}
	return members
}

func (c *converter) method(node *sitter.Node) *ast.Method {
	mods, _ := c.modifiers(node)
	method := &ast.Method{
		Name:       c.text(node.ChildByFieldName("name")),
		Modifiers:  mods,
		Params:     c.params(node.ChildByFieldName("parameters")),
		ReturnType: c.typeHint(node.ChildByFieldName("return_type")),
		Span:       c.span(node),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		method.HasBody = true
		method.Statements = c.statements(body)
	}
	return method
}

func (c *converter) property(node *sitter.Node) *ast.Property {
	mods, isVar := c.modifiers(node)
	prop := &ast.Property{
		Modifiers: mods,
		Var:       isVar,
		Type:      c.typeHint(node.ChildByFieldName("type")),
		Span:      c.span(node),
	}
	for _, element := range childrenOfKind(node, "property_element") {
		entry := &ast.PropertyEntry{Span: c.span(element)}
		parts := namedChildren(element)
		if len(parts) > 0 {
			entry.Name = c.text(parts[0])
		}
		if len(parts) > 1 {
			def := parts[len(parts)-1]
			if def.Kind() == "property_initializer" {
				def = firstNamed(def)
			}
			entry.Default = c.expr(def)
		}
		prop.Entries = append(prop.Entries, entry)
	}
	return prop
}

func (c *converter) constItems(node *sitter.Node) []*ast.ConstItem {
	var items []*ast.ConstItem
	for _, element := range childrenOfKind(node, "const_element") {
		parts := namedChildren(element)
		if len(parts) == 0 {
			continue
		}
		item := &ast.ConstItem{Name: c.text(parts[0]), Span: c.span(element)}
		if len(parts) > 1 {
			item.Value = c.expr(parts[len(parts)-1])
		}
		items = append(items, item)
	}
	return items
}

func (c *converter) params(node *sitter.Node) []*ast.Param {
	var params []*ast.Param
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
		default:
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil {
			name = firstOfKind(child, "variable_name")
		}
		params = append(params, &ast.Param{
			Name:     c.text(name),
			Type:     c.typeHint(child.ChildByFieldName("type")),
			Variadic: child.Kind() == "variadic_parameter",
			Promoted: child.Kind() == "property_promotion_parameter",
			Span:     c.span(child),
		})
	}
	return params
}

// typeHint converts a type node. A nil node yields a nil hint.
func (c *converter) typeHint(node *sitter.Node) *ast.TypeHint {
	if node == nil {
		return nil
	}
	hint := &ast.TypeHint{Span: c.span(node)}
	switch node.Kind() {
	case "optional_type":
		hint.Kind = ast.TypeNullable
		if inner := namedChildren(node); len(inner) > 0 {
			hint.Inner = c.typeHint(inner[0])
		}
	case "named_type", "name", "qualified_name":
		hint.Kind = ast.TypeNamed
		hint.Name = strings.TrimPrefix(c.text(node), `\`)
	case "primitive_type", "bottom_type":
		hint.Kind = ast.TypePrimitive
		hint.Name = strings.ToLower(c.text(node))
	case "union_type":
		hint.Kind = ast.TypeUnion
		for _, part := range namedChildren(node) {
			hint.Types = append(hint.Types, c.typeHint(part))
		}
	case "intersection_type", "disjunctive_normal_form_type":
		hint.Kind = ast.TypeIntersection
		for _, part := range namedChildren(node) {
			hint.Types = append(hint.Types, c.typeHint(part))
		}
	default:
		hint.Kind = ast.TypePrimitive
		hint.Name = c.text(node)
	}
	return hint
}
