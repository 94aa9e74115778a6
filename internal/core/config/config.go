package config

import (
	"bytes"
	"path/filepath"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/rules"
	"phanalist/internal/shared/util"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "./phanalist.yaml"

// OutputFormats lists the renderers selectable through output.format.
var OutputFormats = []string{"text", "json", "sarif", "codeclimate", "gitlab"}

type Config struct {
	Src          string         `toml:"src" yaml:"src"`
	EnabledRules []string       `toml:"enabled_rules" yaml:"enabled_rules"`
	DisableRules []string       `toml:"disable_rules" yaml:"disable_rules"`
	Rules        map[string]any `toml:"rules" yaml:"rules"`
	Output       Output         `toml:"output" yaml:"output"`
	Exclude      Exclude        `toml:"exclude" yaml:"exclude"`
	History      History        `toml:"history" yaml:"history"`
	Watch        Watch          `toml:"watch" yaml:"watch"`
	Metrics      Metrics        `toml:"metrics" yaml:"metrics"`
}

type Output struct {
	Format      string `toml:"format" yaml:"format"`
	SummaryOnly bool   `toml:"summary_only" yaml:"summary_only"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs" yaml:"dirs"`
	Files []string `toml:"files" yaml:"files"`
}

type History struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
}

type Metrics struct {
	Address string `toml:"address" yaml:"address"`
}

// Default returns a fully defaulted config whose rules section carries the
// default settings of every configurable rule.
func Default() *Config {
	cfg := &Config{
		EnabledRules: []string{},
		DisableRules: []string{},
		Rules:        rules.DefaultRegistry().DefaultSettings(),
	}
	applyDefaults(cfg)
	return cfg
}

// WriteDefault writes Default() to path, as TOML for a .toml extension and
// YAML otherwise.
func WriteDefault(path string) error {
	cfg := Default()

	var buf bytes.Buffer
	switch formatOf(path) {
	case formatTOML:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode default config")
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode default config")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode default config")
		}
	}

	if err := util.WriteFileWithDirs(path, buf.Bytes(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write default config"), errors.CtxPath, path)
	}
	return nil
}

type fileFormat int

const (
	formatYAML fileFormat = iota
	formatTOML
)

func formatOf(path string) fileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return formatTOML
	}
	return formatYAML
}
