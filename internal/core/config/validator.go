package config

import (
	"fmt"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/rules"
	"phanalist/internal/shared/util"
	"slices"

	"github.com/sahilm/fuzzy"
)

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateRules(cfg, rules.DefaultRegistry().Codes()); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	return validateHistory(cfg)
}

func validateOutput(cfg *Config) error {
	if !slices.Contains(OutputFormats, cfg.Output.Format) {
		err := errors.Newf(errors.CodeValidationError, "output.format must be one of %v, got %q", OutputFormats, cfg.Output.Format)
		return errors.AddContext(err, errors.CtxFormat, cfg.Output.Format)
	}
	return nil
}

func validateRules(cfg *Config, known []string) error {
	check := func(field string, codes []string) error {
		for _, code := range codes {
			if slices.Contains(known, code) {
				continue
			}
			err := errors.Newf(errors.CodeValidationError, "%s references unknown rule %q", field, code)
			err = errors.AddContext(err, errors.CtxRule, code)
			if hint := suggestCode(code, known); hint != "" {
				err = errors.AddContext(err, errors.CtxHint, fmt.Sprintf("did you mean %s?", hint))
			}
			return err
		}
		return nil
	}
	if err := check("enabled_rules", cfg.EnabledRules); err != nil {
		return err
	}
	return check("disable_rules", cfg.DisableRules)
}

// suggestCode returns the known code that best matches code, or "".
func suggestCode(code string, known []string) string {
	matches := fuzzy.Find(code, known)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func validateExclude(cfg *Config) error {
	if _, err := util.CompilePathPatterns(cfg.Exclude.Dirs); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "invalid exclude dir pattern")
	}
	if _, err := util.CompilePathPatterns(cfg.Exclude.Files); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "invalid exclude file pattern")
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && cfg.History.Path == "" {
		return errors.New(errors.CodeValidationError, "history.path must not be empty when history is enabled")
	}
	return nil
}
