// Package formats renders scan results as text, JSON, SARIF, Code Climate or
// GitLab Code Quality reports.
package formats

import (
	"io"
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/rules"
)

const (
	Text        = "text"
	JSON        = "json"
	SARIF       = "sarif"
	CodeClimate = "codeclimate"
	GitLab      = "gitlab"
)

// Options carries what renderers need beyond the results themselves.
type Options struct {
	// ProjectRoot anchors the relative paths of machine-readable formats.
	ProjectRoot string
	// Rules supplies codes and descriptions.
	Rules       []rules.Rule
	SummaryOnly bool
}

// Render writes res to w in the named format.
func Render(w io.Writer, format string, res *results.Results, opts Options) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case Text:
		err = WriteText(w, res, descriptions(opts.Rules), opts.SummaryOnly)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write text report")
		}
		return nil
	case JSON:
		data, err = GenerateJSON(res)
	case SARIF:
		data, err = GenerateSARIF(opts.ProjectRoot, res, opts.Rules)
	case CodeClimate:
		data, err = GenerateCodeClimate(opts.ProjectRoot, res, descriptions(opts.Rules))
	case GitLab:
		data, err = GenerateGitLab(opts.ProjectRoot, res)
	default:
		return errors.AddContext(errors.Newf(errors.CodeValidationError, "unknown output format %q", format), errors.CtxFormat, format)
	}
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "render report"), errors.CtxFormat, format)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write report"), errors.CtxFormat, format)
	}
	return nil
}

func descriptions(known []rules.Rule) map[string]string {
	out := make(map[string]string, len(known))
	for _, rule := range known {
		out[rule.Code()] = rule.Description()
	}
	return out
}
