// Package ast is the PHP syntax tree consumed by the analysis rules.
//
// The tree is a closed set of tagged variants: every statement implements
// Stmt and every expression implements Expr. Rules type-switch on the
// concrete pointer types and ignore the variants they do not care about.
// Trees are built once by the parser and never mutated afterwards.
package ast

// Span is a source location. Line and Column are 1-based, Position is the
// 0-based byte offset into the file.
type Span struct {
	Line     int `json:"line"`
	Column   int `json:"column"`
	Position int `json:"position"`
}

// Node is implemented by every statement, expression and member.
type Node interface {
	Pos() Span
}

// Stmt is a PHP statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a PHP expression.
type Expr interface {
	Node
	exprNode()
}

// Member is a class-like member declaration.
type Member interface {
	Node
	memberNode()
}

// Modifier is a declaration modifier keyword. The `var` keyword on
// properties is not a modifier.
type Modifier string

const (
	ModPublic    Modifier = "public"
	ModProtected Modifier = "protected"
	ModPrivate   Modifier = "private"
	ModStatic    Modifier = "static"
	ModAbstract  Modifier = "abstract"
	ModFinal     Modifier = "final"
	ModReadonly  Modifier = "readonly"
)

type Modifiers []Modifier

func (m Modifiers) Has(mod Modifier) bool {
	for _, candidate := range m {
		if candidate == mod {
			return true
		}
	}
	return false
}

// TypeKind classifies a type hint.
type TypeKind int

const (
	TypeNamed TypeKind = iota
	TypePrimitive
	TypeNullable
	TypeUnion
	TypeIntersection
)

// TypeHint is a parameter, property or return type declaration.
type TypeHint struct {
	Kind  TypeKind
	Name  string      // named and primitive hints
	Inner *TypeHint   // nullable hints
	Types []*TypeHint // union and intersection hints
	Span  Span
}

// Param is a formal parameter of a function or method.
type Param struct {
	Name     string
	Type     *TypeHint
	Variadic bool
	Promoted bool
	Span     Span
}
