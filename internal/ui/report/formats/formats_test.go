package formats

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/rules"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults(root string) *results.Results {
	res := results.New()
	res.AddFile(filepath.Join(root, "src", "foo.php"), []results.Violation{
		{Rule: "E0005", Line: "class foo", Suggestion: "The class name foo is not capitalized. The first letter of the name of the class should be in uppercase.", Span: ast.Span{Line: 3, Column: 1, Position: 7}},
		{Rule: "E0008", Line: "    public function bar()", Suggestion: "The method bar has a return statement but it has no return type signature.", Span: ast.Span{Line: 5, Column: 5, Position: 23}},
	})
	res.AddFile(filepath.Join(root, "src", "Clean.php"), nil)
	res.AddFile(filepath.Join(root, "src", "Bar.php"), []results.Violation{
		{Rule: "E0005", Line: "class bar", Suggestion: "The class name bar is not capitalized.", Span: ast.Span{Line: 2, Column: 1}},
	})
	res.Duration = 1500 * time.Millisecond
	return res
}

func allRules() []rules.Rule {
	return rules.DefaultRegistry().All()
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", results.New(), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestRender_Text(t *testing.T) {
	root := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Text, sampleResults(root), Options{Rules: allRules()}))
	out := buf.String()

	barAt := strings.Index(out, filepath.Join(root, "src", "Bar.php"))
	fooAt := strings.Index(out, filepath.Join(root, "src", "foo.php"))
	require.True(t, barAt >= 0 && fooAt >= 0, out)
	assert.Less(t, barAt, fooAt, "files are listed in path order")

	assert.Contains(t, out, "detected")
	assert.Contains(t, out, "3:1")
	assert.Contains(t, out, "| class foo")
	assert.Contains(t, out, "| public function bar()")
	assert.Contains(t, out, "Rule Code")
	assert.Contains(t, out, "Capitalized class name")
	assert.NotContains(t, out, "Clean.php")
	assert.True(t, strings.HasSuffix(out, "Analysed 3 files in 1.5s\n"), out)

	// E0005 has the most violations, so it leads the summary table.
	assert.Less(t, strings.Index(out, "│ E0005"), strings.Index(out, "│ E0008"))
}

func TestRender_TextSummaryOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Text, sampleResults(t.TempDir()), Options{Rules: allRules(), SummaryOnly: true}))
	out := buf.String()
	assert.NotContains(t, out, "foo.php")
	assert.Contains(t, out, "E0008")
	assert.Contains(t, out, "Analysed 3 files")
}

func TestRender_TextNoViolations(t *testing.T) {
	res := results.New()
	res.AddFile("a.php", nil)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Text, res, Options{}))
	assert.Contains(t, buf.String(), "No violations found.")
	assert.Contains(t, buf.String(), "Analysed 1 files in 0s")
}

func TestRender_JSON(t *testing.T) {
	root := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, JSON, sampleResults(root), Options{}))

	var decoded struct {
		Files           map[string][]map[string]any `json:"files"`
		CodesCount      map[string]int              `json:"codes_count"`
		TotalFilesCount int                         `json:"total_files_count"`
		DurationMS      int64                       `json:"duration_ms"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.TotalFilesCount)
	assert.Equal(t, int64(1500), decoded.DurationMS)
	assert.Equal(t, map[string]int{"E0005": 2, "E0008": 1}, decoded.CodesCount)

	foo := decoded.Files[filepath.Join(root, "src", "foo.php")]
	require.Len(t, foo, 2)
	assert.Equal(t, "E0005", foo[0]["rule"])
	assert.Equal(t, "class foo", foo[0]["line"])
	span, ok := foo[0]["span"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, span["line"])
	assert.EqualValues(t, 1, span["column"])
	assert.EqualValues(t, 7, span["position"])
}

func TestRender_JSONEmpty(t *testing.T) {
	data, err := GenerateJSON(&results.Results{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files": {}`)
	assert.Contains(t, string(data), `"codes_count": {}`)
}

func TestGenerateSARIF(t *testing.T) {
	root := t.TempDir()
	known := allRules()
	data, err := GenerateSARIF(root, sampleResults(root), known)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, sarifSchema, report.Schema)
	assert.Equal(t, sarifVersion, report.Version)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "phanalist", run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, len(known))
	assert.True(t, strings.HasPrefix(run.AutomationDetails.ID, "phanalist/"))

	require.Len(t, run.Results, 3)
	first := run.Results[0]
	assert.Equal(t, "E0005", first.RuleID)
	assert.Equal(t, known[first.RuleIndex].Code(), "E0005")
	require.Len(t, first.Locations, 1)
	loc := first.Locations[0].PhysicalLocation
	assert.Equal(t, "src/Bar.php", loc.ArtifactLocation.URI)
	assert.Equal(t, "%SRCROOT%", loc.ArtifactLocation.URIBaseID)
	require.NotNil(t, loc.Region)
	assert.Equal(t, 2, loc.Region.StartLine)
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	data, err := GenerateSARIF("", results.New(), nil)
	require.NoError(t, err)
	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
}

func TestGenerateSARIF_FreshAutomationID(t *testing.T) {
	first, err := GenerateSARIF("", results.New(), nil)
	require.NoError(t, err)
	second, err := GenerateSARIF("", results.New(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))
}

func TestGenerateCodeClimate(t *testing.T) {
	root := t.TempDir()
	data, err := GenerateCodeClimate(root, sampleResults(root), descriptions(allRules()))
	require.NoError(t, err)

	var issues []codeClimateIssue
	require.NoError(t, json.Unmarshal(data, &issues))
	require.Len(t, issues, 3)

	issue := issues[1]
	assert.Equal(t, "issue", issue.Type)
	assert.Equal(t, "E0005", issue.CheckName)
	assert.Equal(t, []string{"Style"}, issue.Categories)
	assert.Equal(t, "minor", issue.Severity)
	assert.Equal(t, "src/foo.php", issue.Location.Path)
	assert.Equal(t, 3, issue.Location.Lines.Begin)
	assert.NotEmpty(t, issue.Content.Body)
	assert.Len(t, issue.Fingerprint, 16)
}

func TestGenerateGitLab(t *testing.T) {
	root := t.TempDir()
	data, err := GenerateGitLab(root, sampleResults(root))
	require.NoError(t, err)

	var issues []gitlabIssue
	require.NoError(t, json.Unmarshal(data, &issues))
	require.Len(t, issues, 3)
	assert.Equal(t, "major", issues[0].Severity)
	assert.Equal(t, "src/Bar.php", issues[0].Location.Path)
	assert.Equal(t, 2, issues[0].Location.Lines.Begin)

	// Fingerprints are stable across runs and unique within a report.
	again, err := GenerateGitLab(root, sampleResults(root))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	seen := map[string]bool{}
	for _, issue := range issues {
		assert.False(t, seen[issue.Fingerprint], "duplicate fingerprint %s", issue.Fingerprint)
		seen[issue.Fingerprint] = true
	}
}

func TestFingerprint_RepeatedViolation(t *testing.T) {
	v := results.Violation{Rule: "E0014", Suggestion: "x", Span: ast.Span{Line: 4}}
	res := results.New()
	res.AddFile("a.php", []results.Violation{v, v})

	data, err := GenerateGitLab("", res)
	require.NoError(t, err)
	var issues []gitlabIssue
	require.NoError(t, json.Unmarshal(data, &issues))
	require.Len(t, issues, 2)
	assert.NotEqual(t, issues[0].Fingerprint, issues[1].Fingerprint)
}

func TestRelativeURI(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "src/a.php", relativeURI(root, filepath.Join(root, "src", "a.php")))
	assert.Equal(t, "src/a.php", relativeURI("", filepath.Join("src", "a.php")))
}
