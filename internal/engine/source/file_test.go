package source

import (
	"phanalist/internal/engine/php/ast"
	"testing"
)

func TestFullyQualifiedName(t *testing.T) {
	tests := []struct {
		name  string
		stmts []ast.Stmt
		want  string
		ok    bool
	}{
		{
			name: "namespace and class",
			stmts: []ast.Stmt{
				&ast.Namespace{Name: `App\Service`, Statements: []ast.Stmt{&ast.Class{Name: "Mailer"}}},
			},
			want: `App\Service\Mailer`,
			ok:   true,
		},
		{
			name:  "class only",
			stmts: []ast.Stmt{&ast.Class{Name: "Mailer"}},
			want:  "Mailer",
			ok:    true,
		},
		{
			name:  "namespace only",
			stmts: []ast.Stmt{&ast.Namespace{Name: "App"}},
		},
		{
			name: "no statements",
		},
		{
			name: "first class wins",
			stmts: []ast.Stmt{
				&ast.Namespace{Name: "App"},
				&ast.Class{Name: "First"},
				&ast.Class{Name: "Second"},
			},
			want: `App\First`,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("a.php", nil, tt.stmts)
			got, ok := f.FullyQualifiedName()
			if got != tt.want || ok != tt.ok {
				t.Fatalf("FullyQualifiedName() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLineClampsOutOfRange(t *testing.T) {
	f := New("a.php", []byte("<?php\r\necho 1;\n"), nil)
	if len(f.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(f.Lines))
	}
	if got := f.Line(2); got != "echo 1;" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := f.Line(0); got != "" {
		t.Errorf("Line(0) = %q, want empty", got)
	}
	if got := f.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}
