package demeter

import (
	"phanalist/internal/engine/php/ast"
)

// Finding is one chained call on a foreign or unresolvable receiver.
// Receiver is nil when the receiver type is unknown.
type Finding struct {
	Method   string
	Receiver *TypeName
	Span     ast.Span
}

// resolver walks one method body. vars is the method's variable type map
// and never outlives the walk.
type resolver struct {
	decl     string
	methods  Methods
	vars     map[string]TypeName
	findings []Finding
}

// CheckMethod walks the body of one method of declaration decl and returns
// the chained calls made on foreign objects, in the order they are
// resolved.
func CheckMethod(decl string, methods Methods, body []ast.Stmt) []Finding {
	r := &resolver{
		decl:    decl,
		methods: methods,
		vars:    make(map[string]TypeName),
	}
	r.statements(body)
	return r.findings
}

func (r *resolver) statements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.statement(stmt)
	}
}

func (r *resolver) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolve(s.Expr)
	case *ast.Return:
		r.resolve(s.Value)
	case *ast.Echo:
		r.resolveAll(s.Values)
	case *ast.If:
		r.resolve(s.Condition)
		r.statements(s.Body.Stmts())
		for _, elseIf := range s.ElseIfs {
			r.resolve(elseIf.Condition)
			r.statements(elseIf.Body.Stmts())
		}
		if s.Else != nil {
			r.statements(s.Else.Body.Stmts())
		}
	case *ast.While:
		r.resolve(s.Condition)
		r.statements(s.Body.Stmts())
	case *ast.DoWhile:
		r.statement(s.Body)
		r.resolve(s.Condition)
	case *ast.Switch:
		r.resolve(s.Subject)
		for _, kase := range s.Cases {
			r.resolve(kase.Value)
			r.statements(kase.Statements)
		}
	case *ast.Foreach:
		r.resolve(s.Subject)
		r.statements(s.Body.Stmts())
	case *ast.Block:
		r.statements(s.Statements)
	}
}

func (r *resolver) resolveAll(exprs []ast.Expr) {
	for _, e := range exprs {
		r.resolve(e)
	}
}

// resolve validates expr and returns its type when it can be determined.
func (r *resolver) resolve(expr ast.Expr) (TypeName, bool) {
	switch e := expr.(type) {
	case nil:
		return TypeName{}, false
	case *ast.Variable:
		if e.IsThis() {
			return Self, true
		}
		t, ok := r.vars[e.Name]
		return t, ok
	case *ast.New:
		r.resolveAll(e.Args)
		if name, ok := e.Class.(*ast.Name); ok {
			t := Named(name.Value)
			if t.Kind == KindStatic {
				t = Self
			}
			return t, true
		}
		r.resolve(e.Class)
		return TypeName{}, false
	case *ast.MethodCall:
		r.resolveAll(e.Args)
		recv, ok := r.resolve(e.Object)
		return r.call(e.Method, recv, ok, e.Span)
	case *ast.StaticCall:
		r.resolveAll(e.Args)
		name, named := e.Class.(*ast.Name)
		if !named {
			recv, ok := r.resolve(e.Class)
			return r.call(e.Method, recv, ok, e.Span)
		}
		recv := Named(name.Value)
		if recv.Kind == KindParent {
			// parent::__construct() and other calls up the hierarchy.
			return TypeName{}, false
		}
		return r.call(e.Method, recv, true, e.Span)
	case *ast.FunctionCall:
		r.resolveAll(e.Args)
		if _, named := e.Function.(*ast.Name); !named {
			r.resolve(e.Function)
		}
		return TypeName{}, false
	case *ast.PropertyFetch:
		r.resolve(e.Object)
		return TypeName{}, false
	case *ast.StaticPropertyFetch:
		if _, named := e.Class.(*ast.Name); !named {
			r.resolve(e.Class)
		}
		return TypeName{}, false
	case *ast.ClassConstFetch:
		if _, named := e.Class.(*ast.Name); !named {
			r.resolve(e.Class)
		}
		return TypeName{}, false
	case *ast.Assign:
		return r.assign(e)
	case *ast.Binary:
		r.resolve(e.Left)
		r.resolve(e.Right)
	case *ast.Ternary:
		r.resolve(e.Condition)
		r.resolve(e.Then)
		r.resolve(e.Else)
	case *ast.Unary:
		r.resolve(e.Operand)
	case *ast.Paren:
		r.resolve(e.Inner)
	case *ast.Literal:
		r.resolveAll(e.Elements)
	case *ast.OtherExpr:
		r.resolveAll(e.Children)
	}
	// Closures are separate scopes.
	return TypeName{}, false
}

// assign records the right-hand type of a simple assignment to a plain
// variable, or forgets the variable when that type is unknown.
func (r *resolver) assign(a *ast.Assign) (TypeName, bool) {
	t, ok := r.resolve(a.Right)
	if v, isVar := a.Left.(*ast.Variable); isVar && a.IsSimple() && !v.IsThis() {
		if ok {
			r.vars[v.Name] = t
		} else {
			delete(r.vars, v.Name)
		}
	}
	r.resolve(a.Left)
	return t, ok && a.IsSimple()
}

// call classifies a method call on a receiver of type recv.
func (r *resolver) call(method string, recv TypeName, known bool, span ast.Span) (TypeName, bool) {
	if !known {
		r.findings = append(r.findings, Finding{Method: method, Span: span})
		return TypeName{}, false
	}
	if r.isOwn(recv) {
		return r.methods.Lookup(method)
	}
	receiver := recv
	r.findings = append(r.findings, Finding{Method: method, Receiver: &receiver, Span: span})
	return TypeName{}, false
}

// isOwn reports whether t is the declaration being checked.
func (r *resolver) isOwn(t TypeName) bool {
	switch t.Kind {
	case KindSelf, KindStatic:
		return true
	}
	return t.Is(r.decl)
}
