package ast

// Variable is `$name`. Name keeps the leading dollar sign.
type Variable struct {
	Name string
	Span Span
}

// IsThis reports whether the variable is `$this`.
func (v *Variable) IsThis() bool { return v.Name == "$this" }

// Name is an identifier, qualified name or relative scope keyword
// (`self`, `static`, `parent`) used in expression position.
type Name struct {
	Value string
	Span  Span
}

type New struct {
	Class Expr // *Name for `new Foo`, any expression for `new $class`
	Args  []Expr
	Span  Span
}

type MethodCall struct {
	Object   Expr
	Method   string
	Args     []Expr
	NullSafe bool
	Span     Span
}

type StaticCall struct {
	Class  Expr
	Method string
	Args   []Expr
	Span   Span
}

type FunctionCall struct {
	Function Expr
	Args     []Expr
	Span     Span
}

type PropertyFetch struct {
	Object   Expr
	Property string
	NullSafe bool
	Span     Span
}

type StaticPropertyFetch struct {
	Class    Expr
	Property string
	Span     Span
}

type ClassConstFetch struct {
	Class    Expr
	Constant string
	Span     Span
}

// Assign is any assignment. Op is "=" for a simple assignment, "=&" for a
// reference assignment and the compound operator ("+=", "??=", ...)
// otherwise.
type Assign struct {
	Left  Expr
	Op    string
	Right Expr
	Span  Span
}

// IsSimple reports whether the assignment is a plain `=`.
func (a *Assign) IsSimple() bool { return a.Op == "=" }

type Binary struct {
	Left  Expr
	Op    string
	Right Expr
	Span  Span
}

// Ternary is `a ? b : c`; Then is nil for the short form `a ?: c`.
type Ternary struct {
	Condition Expr
	Then      Expr
	Else      Expr
	Span      Span
}

// Unary covers prefix and postfix operators, including ++ and --, and casts.
type Unary struct {
	Op      string
	Operand Expr
	Postfix bool
	Span    Span
}

// IsIncDec reports whether the operator is ++ or --.
func (u *Unary) IsIncDec() bool { return u.Op == "++" || u.Op == "--" }

type Paren struct {
	Inner Expr
	Span  Span
}

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
	LitArray
)

// Literal is a scalar, string or array literal. Interpolated strings are
// literals too; their Raw text keeps the source form. Elements holds the
// keys and values of an array literal in source order.
type Literal struct {
	Kind     LiteralKind
	Raw      string
	Elements []Expr
	Span     Span
}

// Closure is an anonymous function or arrow function. Its body is a
// separate scope.
type Closure struct {
	Params     []*Param
	ReturnType *TypeHint
	Statements []Stmt
	Arrow      bool
	Span       Span
}

// OtherExpr covers expressions that no rule resolves (match, throw,
// include, subscripts, list(), ...). Children holds any nested expressions.
type OtherExpr struct {
	Kind     string
	Children []Expr
	Span     Span
}

func (e *Variable) Pos() Span            { return e.Span }
func (e *Name) Pos() Span                { return e.Span }
func (e *New) Pos() Span                 { return e.Span }
func (e *MethodCall) Pos() Span          { return e.Span }
func (e *StaticCall) Pos() Span          { return e.Span }
func (e *FunctionCall) Pos() Span        { return e.Span }
func (e *PropertyFetch) Pos() Span       { return e.Span }
func (e *StaticPropertyFetch) Pos() Span { return e.Span }
func (e *ClassConstFetch) Pos() Span     { return e.Span }
func (e *Assign) Pos() Span              { return e.Span }
func (e *Binary) Pos() Span              { return e.Span }
func (e *Ternary) Pos() Span             { return e.Span }
func (e *Unary) Pos() Span               { return e.Span }
func (e *Paren) Pos() Span               { return e.Span }
func (e *Literal) Pos() Span             { return e.Span }
func (e *Closure) Pos() Span             { return e.Span }
func (e *OtherExpr) Pos() Span           { return e.Span }

func (*Variable) exprNode()            {}
func (*Name) exprNode()                {}
func (*New) exprNode()                 {}
func (*MethodCall) exprNode()          {}
func (*StaticCall) exprNode()          {}
func (*FunctionCall) exprNode()        {}
func (*PropertyFetch) exprNode()       {}
func (*StaticPropertyFetch) exprNode() {}
func (*ClassConstFetch) exprNode()     {}
func (*Assign) exprNode()              {}
func (*Binary) exprNode()              {}
func (*Ternary) exprNode()             {}
func (*Unary) exprNode()               {}
func (*Paren) exprNode()               {}
func (*Literal) exprNode()             {}
func (*Closure) exprNode()             {}
func (*OtherExpr) exprNode()           {}
