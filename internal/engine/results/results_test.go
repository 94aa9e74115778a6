package results

import "testing"

func TestResults_AddFile(t *testing.T) {
	r := New()
	r.AddFile("b.php", []Violation{{Rule: "E0002"}, {Rule: "E0005"}, {Rule: "E0002"}})
	r.AddFile("clean.php", nil)
	r.AddFile("a.php", []Violation{{Rule: "E0005"}})

	if r.TotalFilesCount != 3 {
		t.Fatalf("expected 3 files, got %d", r.TotalFilesCount)
	}
	if _, ok := r.Files["clean.php"]; ok {
		t.Fatal("clean file must not be stored")
	}
	if r.CodesCount["E0002"] != 2 || r.CodesCount["E0005"] != 2 {
		t.Fatalf("unexpected codes count: %v", r.CodesCount)
	}
	if got := r.TotalViolations(); got != 4 {
		t.Fatalf("expected 4 violations, got %d", got)
	}
	if paths := r.Paths(); len(paths) != 2 || paths[0] != "a.php" || paths[1] != "b.php" {
		t.Fatalf("unexpected paths: %v", paths)
	}
	if codes := r.Codes(); len(codes) != 2 || codes[0] != "E0002" {
		t.Fatalf("unexpected codes: %v", codes)
	}
	if !r.HasAnyViolations() {
		t.Fatal("expected violations")
	}
}

func TestResults_Empty(t *testing.T) {
	r := New()
	r.AddFile("a.php", nil)
	if r.HasAnyViolations() {
		t.Fatal("expected no violations")
	}
	if r.TotalViolations() != 0 {
		t.Fatal("expected zero total")
	}
}
