package ast

import "strings"

// Method is a method or constructor declaration. Abstract and interface
// methods have HasBody == false.
type Method struct {
	Name       string
	Modifiers  Modifiers
	Params     []*Param
	ReturnType *TypeHint
	HasBody    bool
	Statements []Stmt
	Span       Span
}

// IsConstructor reports whether the method is `__construct`.
func (m *Method) IsConstructor() bool {
	return strings.EqualFold(m.Name, "__construct")
}

// PropertyEntry is one `$name [= default]` element of a property declaration.
type PropertyEntry struct {
	Name    string
	Default Expr
	Span    Span
}

type Property struct {
	Modifiers Modifiers
	Var       bool
	Type      *TypeHint
	Entries   []*PropertyEntry
	Span      Span
}

type ConstItem struct {
	Name  string
	Value Expr
	Span  Span
}

// ClassConst is a `const` declaration inside a class-like body.
type ClassConst struct {
	Modifiers Modifiers
	Items     []*ConstItem
	Span      Span
}

// TraitUse is a `use TraitA, TraitB;` member.
type TraitUse struct {
	Traits []string
	Span   Span
}

type EnumCase struct {
	Name  string
	Value Expr
	Span  Span
}

func (m *Method) Pos() Span     { return m.Span }
func (m *Property) Pos() Span   { return m.Span }
func (m *ClassConst) Pos() Span { return m.Span }
func (m *TraitUse) Pos() Span   { return m.Span }
func (m *EnumCase) Pos() Span   { return m.Span }

func (*Method) memberNode()     {}
func (*Property) memberNode()   {}
func (*ClassConst) memberNode() {}
func (*TraitUse) memberNode()   {}
func (*EnumCase) memberNode()   {}

// Methods returns the method members of a class-like body in source order.
func Methods(members []Member) []*Method {
	var methods []*Method
	for _, member := range members {
		if method, ok := member.(*Method); ok {
			methods = append(methods, method)
		}
	}
	return methods
}

// MembersOf returns the members of a class-like declaration, or nil when
// stmt is not one.
func MembersOf(stmt Stmt) []Member {
	switch decl := stmt.(type) {
	case *Class:
		return decl.Members
	case *Interface:
		return decl.Members
	case *Trait:
		return decl.Members
	case *Enum:
		return decl.Members
	}
	return nil
}
