package config

import (
	"bytes"
	"os"
	"phanalist/internal/core/errors"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads, defaults and validates the config at path. A missing file is
// reported as CodeNotFound so callers can fall back to Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if err := decode(data, formatOf(path), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

func decode(data []byte, format fileFormat, cfg *Config) error {
	if format == formatTOML {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Src) == "" {
		cfg.Src = "./src"
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]any)
	}

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"vendor", ".git", "node_modules"}
	}
	if cfg.Exclude.Files == nil {
		cfg.Exclude.Files = []string{}
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".phanalist/history.db"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// UnmarshalYAML also accepts the legacy scalar form (output: STDOUT), which
// picked a destination rather than a format. The scalar is ignored.
func (o *Output) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return nil
	}
	type plain Output
	return node.Decode((*plain)(o))
}
