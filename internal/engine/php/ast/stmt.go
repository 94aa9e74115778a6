package ast

// OpeningTag is the `<?php` (or `<?`, `<?=`) tag that starts PHP mode.
type OpeningTag struct {
	Text string
	Span Span
}

// InlineHTML is text outside PHP tags.
type InlineHTML struct {
	Text string
	Span Span
}

// ClosingTag is `?>`.
type ClosingTag struct {
	Span Span
}

type ExpressionStmt struct {
	Expr Expr
	Span Span
}

type Return struct {
	Value Expr // nil for a bare `return;`
	Span  Span
}

type Echo struct {
	Values []Expr
	Span   Span
}

// Block is a brace-delimited statement list.
type Block struct {
	Statements []Stmt
	Span       Span
}

// IfBody holds the then-branch of an if statement. Colon-delimited bodies
// (`if (...): ... endif;`) keep their statements in Statements; every other
// body is a single Statement, which is a *Block for the braced form.
type IfBody struct {
	Colon      bool
	Statements []Stmt
	Statement  Stmt
}

// Delimited reports whether the body is a braced or colon-delimited block
// and returns its statements.
func (b IfBody) Delimited() ([]Stmt, bool) {
	if b.Colon {
		return b.Statements, true
	}
	if block, ok := b.Statement.(*Block); ok {
		return block.Statements, true
	}
	return nil, false
}

// Stmts returns the branch as a statement list regardless of its form.
func (b IfBody) Stmts() []Stmt {
	if b.Colon {
		return b.Statements
	}
	if b.Statement == nil {
		return nil
	}
	return []Stmt{b.Statement}
}

type ElseIf struct {
	Condition Expr
	Body      IfBody
	Span      Span
}

type Else struct {
	Body IfBody
	Span Span
}

type If struct {
	Condition Expr
	Body      IfBody
	ElseIfs   []*ElseIf
	Else      *Else
	Span      Span
}

// LoopBody is the body of while, for and foreach loops. Colon-delimited
// loops keep their statements in Statements.
type LoopBody struct {
	Colon      bool
	Statements []Stmt
	Statement  Stmt // nil for an empty `;` body
}

// Stmts returns the body as a statement list regardless of its form.
func (b LoopBody) Stmts() []Stmt {
	if b.Colon {
		return b.Statements
	}
	if b.Statement == nil {
		return nil
	}
	return []Stmt{b.Statement}
}

type While struct {
	Condition Expr
	Body      LoopBody
	Span      Span
}

type DoWhile struct {
	Body      Stmt
	Condition Expr
	Span      Span
}

type For struct {
	Init      []Expr
	Condition []Expr
	Update    []Expr
	Body      LoopBody
	Span      Span
}

type Foreach struct {
	Subject Expr
	Key     Expr // nil without `$k =>`
	Value   Expr
	Body    LoopBody
	Span    Span
}

// Case is a switch arm. Default arms have a nil Value.
type Case struct {
	Value      Expr
	Default    bool
	Statements []Stmt
	Span       Span
}

type Switch struct {
	Subject Expr
	Cases   []*Case
	Span    Span
}

type Catch struct {
	Types      []string
	Variable   string
	Statements []Stmt
	Span       Span
}

type Finally struct {
	Statements []Stmt
	Span       Span
}

type Try struct {
	Statements []Stmt
	Catches    []*Catch
	Finally    *Finally
	Span       Span
}

// Namespace is a namespace declaration. Unbraced namespaces own every
// statement up to the next namespace declaration or the end of the file.
type Namespace struct {
	Name       string
	Braced     bool
	Statements []Stmt
	Span       Span
}

// Use is a namespace import (`use Foo\Bar;`).
type Use struct {
	Names []string
	Span  Span
}

type Function struct {
	Name       string
	Params     []*Param
	ReturnType *TypeHint
	Statements []Stmt
	Span       Span
}

type Class struct {
	Name       string
	Modifiers  Modifiers
	Extends    string
	Implements []string
	Members    []Member
	Span       Span
}

type Interface struct {
	Name    string
	Extends []string
	Members []Member
	Span    Span
}

type Trait struct {
	Name    string
	Members []Member
	Span    Span
}

type Enum struct {
	Name       string
	Implements []string
	Members    []Member
	Span       Span
}

// ConstDecl is a top-level `const X = ...;` declaration.
type ConstDecl struct {
	Items []*ConstItem
	Span  Span
}

// OtherStmt covers statements the rules never inspect: break, continue,
// global, static, unset, declare, goto, labels and empty statements.
type OtherStmt struct {
	Kind string
	Span Span
}

func (s *OpeningTag) Pos() Span     { return s.Span }
func (s *InlineHTML) Pos() Span     { return s.Span }
func (s *ClosingTag) Pos() Span     { return s.Span }
func (s *ExpressionStmt) Pos() Span { return s.Span }
func (s *Return) Pos() Span         { return s.Span }
func (s *Echo) Pos() Span           { return s.Span }
func (s *Block) Pos() Span          { return s.Span }
func (s *If) Pos() Span             { return s.Span }
func (s *While) Pos() Span          { return s.Span }
func (s *DoWhile) Pos() Span        { return s.Span }
func (s *For) Pos() Span            { return s.Span }
func (s *Foreach) Pos() Span        { return s.Span }
func (s *Switch) Pos() Span         { return s.Span }
func (s *Try) Pos() Span            { return s.Span }
func (s *Namespace) Pos() Span      { return s.Span }
func (s *Use) Pos() Span            { return s.Span }
func (s *Function) Pos() Span       { return s.Span }
func (s *Class) Pos() Span          { return s.Span }
func (s *Interface) Pos() Span      { return s.Span }
func (s *Trait) Pos() Span          { return s.Span }
func (s *Enum) Pos() Span           { return s.Span }
func (s *ConstDecl) Pos() Span      { return s.Span }
func (s *OtherStmt) Pos() Span      { return s.Span }

func (*OpeningTag) stmtNode()     {}
func (*InlineHTML) stmtNode()     {}
func (*ClosingTag) stmtNode()     {}
func (*ExpressionStmt) stmtNode() {}
func (*Return) stmtNode()         {}
func (*Echo) stmtNode()           {}
func (*Block) stmtNode()          {}
func (*If) stmtNode()             {}
func (*While) stmtNode()          {}
func (*DoWhile) stmtNode()        {}
func (*For) stmtNode()            {}
func (*Foreach) stmtNode()        {}
func (*Switch) stmtNode()         {}
func (*Try) stmtNode()            {}
func (*Namespace) stmtNode()      {}
func (*Use) stmtNode()            {}
func (*Function) stmtNode()       {}
func (*Class) stmtNode()          {}
func (*Interface) stmtNode()      {}
func (*Trait) stmtNode()          {}
func (*Enum) stmtNode()           {}
func (*ConstDecl) stmtNode()      {}
func (*OtherStmt) stmtNode()      {}
