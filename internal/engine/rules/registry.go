package rules

import (
	"phanalist/internal/core/errors"
	"sort"
)

// Registry maps rule codes to rule instances. Registries are built per run;
// rule instances carry their settings and must not be shared between runs.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry registers rules, rejecting duplicate codes.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		if _, exists := r.rules[rule.Code()]; exists {
			return nil, errors.AddContext(
				errors.Newf(errors.CodeConflict, "duplicate rule code %s", rule.Code()),
				errors.CtxRule, rule.Code(),
			)
		}
		r.rules[rule.Code()] = rule
	}
	return r, nil
}

// DefaultRegistry returns a registry holding a fresh instance of every
// built-in rule with default settings.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewOpeningTag(),
		NewEmptyCatch(),
		NewMethodModifiers(),
		NewUppercaseConstants(),
		NewCapitalizedClassName(),
		NewPropertyModifiers(),
		NewParameterCount(),
		NewReturnTypeSignature(),
		NewCyclomaticComplexity(),
		NewPathComplexity(),
		NewSharedMemory(),
		NewLawOfDemeter(),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(code string) (Rule, bool) {
	rule, ok := r.rules[code]
	return rule, ok
}

// Codes returns every registered code in ascending order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns every registered rule ordered by code.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, code := range r.Codes() {
		out = append(out, r.rules[code])
	}
	return out
}

// Enabled returns the rules to run, ordered by code. A non-empty enabled
// list selects exactly those rules; otherwise every rule not in disabled is
// selected. Unknown codes are ignored.
func (r *Registry) Enabled(enabled, disabled []string) []Rule {
	if len(enabled) > 0 {
		selected := make(map[string]bool, len(enabled))
		for _, code := range enabled {
			selected[code] = true
		}
		var out []Rule
		for _, rule := range r.All() {
			if selected[rule.Code()] {
				out = append(out, rule)
			}
		}
		return out
	}

	skip := make(map[string]bool, len(disabled))
	for _, code := range disabled {
		skip[code] = true
	}
	var out []Rule
	for _, rule := range r.All() {
		if !skip[rule.Code()] {
			out = append(out, rule)
		}
	}
	return out
}

// Configure passes each rule its settings blob. Blobs for unknown codes are
// ignored.
func (r *Registry) Configure(settings map[string]any) {
	for code, blob := range settings {
		if rule, ok := r.rules[code]; ok {
			rule.Configure(blob)
		}
	}
}

// DefaultSettings returns the current settings of every configurable rule,
// keyed by code.
func (r *Registry) DefaultSettings() map[string]any {
	out := make(map[string]any)
	for code, rule := range r.rules {
		if c, ok := rule.(Configurable); ok {
			out[code] = c.Settings()
		}
	}
	return out
}
