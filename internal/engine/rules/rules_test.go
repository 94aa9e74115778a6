package rules

import (
	"bytes"
	"log/slog"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/parser"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/source"
	"reflect"
	"strings"
	"testing"
)

func parseFile(t *testing.T, src string) *source.File {
	t.Helper()
	stmts, err := parser.New().Parse("test.php", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return source.New("test.php", []byte(src), stmts)
}

// run analyses src with the given rules enabled, or every rule when codes is
// empty.
func run(t *testing.T, src string, codes ...string) []results.Violation {
	t.Helper()
	return Analyse(parseFile(t, src), DefaultRegistry().Enabled(codes, nil))
}

func suggestions(vs []results.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Suggestion)
	}
	return out
}

func TestAnalyse_LowercaseClassWithLiteralReturn(t *testing.T) {
	src := `<?php

class foo
{
    public function bar()
    {
        return 1;
    }
}
`
	vs := run(t, src)
	if len(vs) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(vs), suggestions(vs))
	}
	if vs[0].Rule != "E0005" || vs[1].Rule != "E0008" {
		t.Fatalf("expected E0005 then E0008, got %s and %s", vs[0].Rule, vs[1].Rule)
	}
	if vs[1].Suggestion != "The method bar has a return statement but it has no return type signature." {
		t.Errorf("unexpected suggestion %q", vs[1].Suggestion)
	}
	if vs[0].Span.Line != 3 || vs[0].Line != "class foo" {
		t.Errorf("expected class line 3, got %d %q", vs[0].Span.Line, vs[0].Line)
	}
}

func TestAnalyse_NestedIfsOverThreshold(t *testing.T) {
	src := `<?php

class Checker
{
    public function check($a)
    {
        if ($a) {
            if ($a) {
                if ($a) {
                    if ($a) {
                        if ($a) {
                            run($a);
                        }
                    }
                }
            }
        }
    }
}
`
	file := parseFile(t, src)
	reg := DefaultRegistry()
	if vs := Analyse(file, reg.Enabled([]string{"E0009"}, nil)); len(vs) != 0 {
		t.Fatalf("expected no violation at the default threshold, got %v", suggestions(vs))
	}

	reg.Configure(map[string]any{"E0009": map[string]any{"max_complexity": 3}})
	vs := Analyse(file, reg.Enabled([]string{"E0009"}, nil))
	if len(vs) != 1 {
		t.Fatalf("expected exactly one violation, got %v", suggestions(vs))
	}
	if vs[0].Suggestion != "The body of check method has 4 complexity. Make it easier to understand." {
		t.Errorf("unexpected suggestion %q", vs[0].Suggestion)
	}
}

func TestAnalyse_Idempotent(t *testing.T) {
	src := `<?php
namespace App\Service;

class report
{
    var $cache;
    function build($a, $b, $c, $d, $e, $f)
    {
        try {
            $this->cache = $this->load()->rows();
        } catch (\Exception $e) {
        }
        return 'x';
    }
}
`
	first := run(t, src)
	second := run(t, src)
	if len(first) == 0 {
		t.Fatal("expected violations")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical runs:\n%v\n%v", first, second)
	}
}

func TestAnalyse_ParseFailureYieldsNoViolations(t *testing.T) {
	src := "<?php class {"
	stmts, err := parser.New().Parse("broken.php", []byte(src))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	file := source.New("broken.php", []byte(src), stmts)
	if vs := Analyse(file, DefaultRegistry().All()); len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", suggestions(vs))
	}
}

func TestRegistry_DuplicateCodes(t *testing.T) {
	_, err := NewRegistry(NewEmptyCatch(), NewEmptyCatch())
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegistry_Enabled(t *testing.T) {
	reg := DefaultRegistry()

	codes := func(rs []Rule) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Code())
		}
		return out
	}

	all := codes(reg.Enabled(nil, nil))
	want := []string{"E0001", "E0002", "E0003", "E0004", "E0005", "E0006", "E0007", "E0008", "E0009", "E0010", "E0012", "E0014"}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("expected %v, got %v", want, all)
	}

	if got := codes(reg.Enabled([]string{"E0014", "E0002", "E9999"}, []string{"E0002"})); !reflect.DeepEqual(got, []string{"E0002", "E0014"}) {
		t.Fatalf("allow-list should win and be sorted, got %v", got)
	}

	got := codes(reg.Enabled(nil, []string{"E0001", "E0014"}))
	if len(got) != len(want)-2 || got[0] != "E0002" || got[len(got)-1] != "E0012" {
		t.Fatalf("deny-list not applied: %v", got)
	}
}

func TestRegistry_ConfigureKeepsDefaultsOnBadSettings(t *testing.T) {
	reg := DefaultRegistry()
	reg.Configure(map[string]any{
		"E0007": map[string]any{"max_parameters": "five"},
		"E0010": map[string]any{"max_path": 3},
		"E0012": []any{"not", "an", "object"},
		"E9999": map[string]any{"x": 1},
	})
	settings := reg.DefaultSettings()

	if got := settings["E0007"].(ParameterCountSettings); got.MaxParameters != 5 || !got.CheckConstructor {
		t.Errorf("E0007 settings changed: %+v", got)
	}
	if got := settings["E0010"].(PathSettings); got.MaxPaths != 200 {
		t.Errorf("E0010 settings changed: %+v", got)
	}
	if got := settings["E0012"].(SharedMemorySettings); len(got.IncludeNamespaces) != 2 {
		t.Errorf("E0012 settings changed: %+v", got)
	}
}

func TestRegistry_ConfigurePartialSettings(t *testing.T) {
	reg := DefaultRegistry()
	reg.Configure(map[string]any{"E0007": map[string]any{"max_parameters": 2}})
	got := reg.DefaultSettings()["E0007"].(ParameterCountSettings)
	if got.MaxParameters != 2 || !got.CheckConstructor {
		t.Fatalf("expected max 2 with constructor check kept, got %+v", got)
	}
}

func TestRegistry_ConfigureIgnoresUnknownKeys(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	reg := DefaultRegistry()
	reg.Configure(map[string]any{"E0007": map[string]any{"max_parameters": 2, "check_construtor": false}})
	got := reg.DefaultSettings()["E0007"].(ParameterCountSettings)
	if got.MaxParameters != 2 || !got.CheckConstructor {
		t.Fatalf("expected max 2 with constructor check kept, got %+v", got)
	}
	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "check_construtor") {
		t.Fatalf("expected a warning naming the unknown key, got %q", out)
	}
}

func TestNamespaceFilter(t *testing.T) {
	const ns = `App\Service\Search`
	tests := []struct {
		name    string
		fqn     string
		ok      bool
		include []string
		exclude []string
		want    bool
	}{
		{"empty lists", ns, true, nil, nil, true},
		{"include contains", ns, true, []string{`\Service\`}, nil, true},
		{"include does not contain", ns, true, []string{`\Service2\`}, nil, false},
		{"exclude contains", ns, true, nil, []string{`\Service\`}, false},
		{"exclude does not contain", ns, true, nil, []string{`\Service2\`}, true},
		{"exclude wins over include", ns, true, []string{`\Service\`}, []string{`\Service\`}, false},
		{"missing fqn with include", "", false, []string{`\Service\`}, nil, false},
		{"missing fqn without include", "", false, nil, []string{`\Service\`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NamespaceFilter(tt.fqn, tt.ok, tt.include, tt.exclude); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBase_ShouldValidateNeedsFQN(t *testing.T) {
	b := NewBase("E0000", "test")
	if b.ShouldValidate(parseFile(t, "<?php\necho 1;\n")) {
		t.Error("expected a file without a class to be skipped")
	}
	if !b.ShouldValidate(parseFile(t, "<?php\nclass A {}\n")) {
		t.Error("expected a file with a class to be validated")
	}
}

func TestBase_NewViolationClampsLine(t *testing.T) {
	file := NewFile(parseFile(t, "<?php\nclass A {}\n"))
	b := NewBase("E0000", "test")
	if v := b.NewViolation(file, "msg", ast.Span{Line: 2, Column: 1}); v.Line != "class A {}" {
		t.Errorf("expected line text, got %q", v.Line)
	}
	for _, line := range []int{0, 3, 99} {
		if v := b.NewViolation(file, "msg", ast.Span{Line: line}); v.Line != "" {
			t.Errorf("line %d: expected empty text, got %q", line, v.Line)
		}
	}
}
