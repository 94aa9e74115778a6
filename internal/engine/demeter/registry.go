// Package demeter resolves the declared types of chained method calls to
// find calls made on foreign objects.
//
// Resolution is purely syntactic: method return types come from their
// declared hints, local variables are tracked through simple assignments
// inside one method body, and anything that cannot be resolved is treated as
// foreign.
package demeter

import (
	"phanalist/internal/engine/flatten"
	"phanalist/internal/engine/php/ast"
	"strings"
)

// TypeKind distinguishes the reflexive type tokens from named types.
type TypeKind int

const (
	KindNamed TypeKind = iota
	KindSelf
	KindStatic
	KindParent
)

// TypeName is a resolved type: a reflexive token or a class-like name.
type TypeName struct {
	Kind TypeKind
	Name string
}

var (
	Self   = TypeName{Kind: KindSelf}
	Static = TypeName{Kind: KindStatic}
	Parent = TypeName{Kind: KindParent}
)

// Named returns the type for a class-like name. The reflexive keywords map
// to their tokens.
func Named(name string) TypeName {
	name = strings.TrimPrefix(name, `\`)
	switch strings.ToLower(name) {
	case "self":
		return Self
	case "static":
		return Static
	case "parent":
		return Parent
	}
	return TypeName{Kind: KindNamed, Name: name}
}

func (t TypeName) String() string {
	switch t.Kind {
	case KindSelf:
		return "self"
	case KindStatic:
		return "static"
	case KindParent:
		return "parent"
	}
	return t.Name
}

// Is reports whether t names the class-like declaration decl.
func (t TypeName) Is(decl string) bool {
	return t.Kind == KindNamed && strings.EqualFold(shortName(t.Name), shortName(decl))
}

func shortName(name string) string {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func key(name string) string {
	return strings.ToLower(shortName(name))
}

// ReturnType converts a declared return hint. Nullable hints unwrap; union,
// intersection and scalar hints are unresolvable.
func ReturnType(hint *ast.TypeHint) (TypeName, bool) {
	if hint == nil {
		return TypeName{}, false
	}
	switch hint.Kind {
	case ast.TypeNullable:
		return ReturnType(hint.Inner)
	case ast.TypeNamed:
		if hint.Name == "" {
			return TypeName{}, false
		}
		return Named(hint.Name), true
	case ast.TypePrimitive:
		if t := Named(hint.Name); t.Kind != KindNamed {
			return t, true
		}
	}
	return TypeName{}, false
}

// Methods maps lower-cased method names to their resolved return types.
// Methods whose return type is unresolvable are absent.
type Methods map[string]TypeName

// Lookup returns the return type of method.
func (m Methods) Lookup(method string) (TypeName, bool) {
	t, ok := m[strings.ToLower(method)]
	return t, ok
}

// Registry maps every class, trait, interface and enum of one file to its
// method return types. It is built once per file and only read afterwards.
type Registry struct {
	decls map[string]Methods
}

// BuildRegistry indexes every class-like declaration reachable from stmts,
// including those inside namespaces.
func BuildRegistry(stmts []ast.Stmt) *Registry {
	r := &Registry{decls: make(map[string]Methods)}
	for _, stmt := range flatten.Statements(stmts) {
		var name string
		switch decl := stmt.(type) {
		case *ast.Class:
			name = decl.Name
		case *ast.Trait:
			name = decl.Name
		case *ast.Interface:
			name = decl.Name
		case *ast.Enum:
			name = decl.Name
		default:
			continue
		}
		if _, seen := r.decls[key(name)]; seen {
			continue
		}
		r.decls[key(name)] = ownMethods(ast.MembersOf(stmt))
	}
	return r
}

func ownMethods(members []ast.Member) Methods {
	methods := make(Methods)
	for _, method := range ast.Methods(members) {
		if t, ok := ReturnType(method.ReturnType); ok {
			methods[strings.ToLower(method.Name)] = t
		}
	}
	return methods
}

// Lookup returns the method map registered for a declaration name.
func (r *Registry) Lookup(decl string) (Methods, bool) {
	m, ok := r.decls[key(decl)]
	return m, ok
}

// Merged returns the method map of declaration decl with the methods of its
// used traits folded in. The declaration's own methods win over trait
// methods, and any return type naming decl itself becomes self.
func (r *Registry) Merged(decl string, members []ast.Member) Methods {
	merged := make(Methods)
	for name, t := range ownMethods(members) {
		merged[name] = t
	}
	for _, member := range members {
		use, ok := member.(*ast.TraitUse)
		if !ok {
			continue
		}
		for _, trait := range use.Traits {
			traitMethods, ok := r.Lookup(trait)
			if !ok {
				continue
			}
			for name, t := range traitMethods {
				if _, own := merged[name]; own {
					continue
				}
				merged[name] = t
			}
		}
	}
	for name, t := range merged {
		if t.Is(decl) {
			merged[name] = Self
		}
	}
	return merged
}
