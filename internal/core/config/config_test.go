package config

import (
	"os"
	"path/filepath"
	"phanalist/internal/core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "phanalist.yaml", `
src: ./app
enabled_rules: []
disable_rules: [E0012]
rules:
  E0007:
    max_parameters: 3
output:
  format: JSON
  summary_only: true
exclude:
  files: ["*Test.php"]
watch:
  debounce: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./app", cfg.Src)
	assert.Equal(t, []string{"E0012"}, cfg.DisableRules)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.SummaryOnly)
	assert.Equal(t, []string{"vendor", ".git", "node_modules"}, cfg.Exclude.Dirs)
	assert.Equal(t, []string{"*Test.php"}, cfg.Exclude.Files)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, ".phanalist/history.db", cfg.History.Path)

	blob, ok := cfg.Rules["E0007"].(map[string]any)
	require.True(t, ok, "expected E0007 settings map, got %T", cfg.Rules["E0007"])
	assert.EqualValues(t, 3, blob["max_parameters"])
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "phanalist.toml", `
src = "lib"
enabled_rules = ["E0009", "E0010"]

[rules.E0009]
max_complexity = 4

[output]
format = "sarif"

[history]
enabled = true
path = "out/history.db"

[metrics]
address = "127.0.0.1:9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lib", cfg.Src)
	assert.Equal(t, []string{"E0009", "E0010"}, cfg.EnabledRules)
	assert.Equal(t, "sarif", cfg.Output.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "out/history.db", cfg.History.Path)
	assert.Equal(t, "127.0.0.1:9090", cfg.Metrics.Address)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Contains(t, cfg.Rules, "E0009")
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "phanalist.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, "./src", cfg.Src)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_LegacyOutputScalar(t *testing.T) {
	path := writeConfig(t, "phanalist.yaml", `
src: ./
storage: /tmp/phanalist
output: STDOUT
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "./", cfg.Src)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestLoad_InvalidSyntax(t *testing.T) {
	_, err := Load(writeConfig(t, "phanalist.yaml", "src: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestValidate_UnknownFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestValidate_UnknownRuleSuggestsCode(t *testing.T) {
	cfg := Default()
	cfg.DisableRules = []string{"E014"}
	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "disable_rules")
	assert.Contains(t, err.Error(), "did you mean E0014?")
}

func TestValidate_UnknownRuleWithoutMatch(t *testing.T) {
	cfg := Default()
	cfg.EnabledRules = []string{"X9"}
	err := Validate(cfg)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestValidate_InvalidGlob(t *testing.T) {
	cfg := Default()
	cfg.Exclude.Files = []string{"[abc"}
	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestDefault_CarriesRuleSettings(t *testing.T) {
	cfg := Default()
	for _, code := range []string{"E0007", "E0009", "E0010", "E0012"} {
		assert.Contains(t, cfg.Rules, code)
	}
	assert.Empty(t, cfg.EnabledRules)
	assert.NoError(t, Validate(cfg))
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	for _, name := range []string{"phanalist.yaml", "phanalist.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, WriteDefault(path))

			cfg, err := Load(path)
			require.NoError(t, err)

			want := Default()
			assert.Equal(t, want.Src, cfg.Src)
			assert.Equal(t, want.Output, cfg.Output)
			assert.Equal(t, want.Exclude.Dirs, cfg.Exclude.Dirs)
			assert.Equal(t, want.Watch.Debounce, cfg.Watch.Debounce)

			blob, ok := cfg.Rules["E0007"].(map[string]any)
			require.True(t, ok)
			assert.EqualValues(t, 5, blob["max_parameters"])
			assert.Equal(t, true, blob["check_constructor"])
		})
	}
}
