package demeter

import (
	"phanalist/internal/engine/php/ast"
	"testing"
)

func TestBuildRegistry_IndexesDeclarationsInNamespaces(t *testing.T) {
	stmts := parse(t, `<?php
namespace App\Model;

interface HasOwner { public function owner(): ?User; }

trait Timestamps { public function touch(): static { return $this; } }

enum Status { case Active; public function label(): string { return 'a'; } }

class User
{
    public function team(): \App\Model\Team { return new Team(); }
    public function tags(): array|null { return null; }
    public function name(): string { return ''; }
    public function plain() { return 1; }
}
`)
	r := BuildRegistry(stmts)
	for _, decl := range []string{"HasOwner", "Timestamps", "Status", "User"} {
		if _, ok := r.Lookup(decl); !ok {
			t.Fatalf("expected %s to be indexed", decl)
		}
	}

	owner, ok := r.Lookup("HasOwner")
	if !ok {
		t.Fatal("expected interface to be indexed")
	}
	if got, ok := owner.Lookup("owner"); !ok || got != Named("User") {
		t.Fatalf("expected nullable hint to unwrap to User, got %v %v", got, ok)
	}

	traitMethods, _ := r.Lookup("Timestamps")
	if got, ok := traitMethods.Lookup("touch"); !ok || got != Static {
		t.Fatalf("expected static, got %v %v", got, ok)
	}

	user, _ := r.Lookup("user")
	if got, ok := user.Lookup("TEAM"); !ok || got.String() != `App\Model\Team` {
		t.Fatalf("expected qualified Team, got %v %v", got, ok)
	}
	for _, method := range []string{"tags", "name", "plain"} {
		if _, ok := user.Lookup(method); ok {
			t.Errorf("expected %s to have no resolvable return type", method)
		}
	}
}

func TestMerged_OwnMethodsWinAndSelfNormalised(t *testing.T) {
	stmts := parse(t, `<?php
trait Fluent
{
    public function with(): Builder { return $this; }
    public function other(): Query { return new Query(); }
}

class Builder
{
    use Fluent;

    public function other(): self { return $this; }
    public function copy(): Builder { return clone $this; }
}
`)
	r := BuildRegistry(stmts)
	class := stmts[2].(*ast.Class)
	merged := r.Merged(class.Name, class.Members)

	want := map[string]TypeName{"with": Self, "other": Self, "copy": Self}
	if len(merged) != len(want) {
		t.Fatalf("expected %d methods, got %v", len(want), merged)
	}
	for name, typ := range want {
		if got, _ := merged.Lookup(name); got != typ {
			t.Errorf("%s: expected %v, got %v", name, typ, got)
		}
	}
}

func TestNamed_ReflexiveTokens(t *testing.T) {
	cases := map[string]TypeName{
		"self":     Self,
		"STATIC":   Static,
		"parent":   Parent,
		`\Foo\Bar`: {Kind: KindNamed, Name: `Foo\Bar`},
		"Customer": {Kind: KindNamed, Name: "Customer"},
	}
	for in, want := range cases {
		if got := Named(in); got != want {
			t.Errorf("Named(%q) = %v, want %v", in, got, want)
		}
	}
	if !Named(`App\Order`).Is("order") {
		t.Error("expected short names to match case-insensitively")
	}
	if Self.Is("self") {
		t.Error("reflexive tokens never name a declaration")
	}
}
