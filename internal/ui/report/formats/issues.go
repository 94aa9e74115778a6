package formats

import (
	"encoding/json"
	"fmt"
	"phanalist/internal/engine/results"
	"strconv"

	"github.com/minio/highwayhash"
)

// fingerprintKey is fixed so fingerprints stay stable across runs.
var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// fingerprint identifies a violation by code, relative path, line and text.
// occurrence separates identical violations reported on the same line.
func fingerprint(v results.Violation, path string, occurrence int) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	parts := []string{v.Rule, path, strconv.Itoa(v.Span.Line), v.Suggestion}
	if occurrence > 0 {
		parts = append(parts, strconv.Itoa(occurrence))
	}
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

type issueLines struct {
	Begin int `json:"begin"`
	End   int `json:"end,omitempty"`
}

type issueLocation struct {
	Path  string     `json:"path"`
	Lines issueLines `json:"lines"`
}

type codeClimateContent struct {
	Body string `json:"body"`
}

type codeClimateIssue struct {
	Type        string             `json:"type"`
	CheckName   string             `json:"check_name"`
	Description string             `json:"description"`
	Content     codeClimateContent `json:"content"`
	Categories  []string           `json:"categories"`
	Location    issueLocation      `json:"location"`
	Severity    string             `json:"severity"`
	Fingerprint string             `json:"fingerprint"`
}

type gitlabIssue struct {
	Description string        `json:"description"`
	CheckName   string        `json:"check_name"`
	Fingerprint string        `json:"fingerprint"`
	Severity    string        `json:"severity"`
	Location    issueLocation `json:"location"`
}

// GenerateCodeClimate renders violations as a Code Climate issue array.
// descriptions maps rule codes to their rule description.
func GenerateCodeClimate(projectRoot string, res *results.Results, descriptions map[string]string) ([]byte, error) {
	issues := make([]codeClimateIssue, 0, res.TotalViolations())
	err := eachViolation(projectRoot, res, func(path string, v results.Violation, fp string) {
		body, ok := descriptions[v.Rule]
		if !ok {
			body = "Unknown rule"
		}
		issues = append(issues, codeClimateIssue{
			Type:        "issue",
			CheckName:   v.Rule,
			Description: v.Suggestion,
			Content:     codeClimateContent{Body: body},
			Categories:  []string{"Style"},
			Location:    issueLocation{Path: path, Lines: issueLines{Begin: v.Span.Line, End: v.Span.Line}},
			Severity:    "minor",
			Fingerprint: fp,
		})
	})
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(issues, "", "  ")
}

// GenerateGitLab renders violations in the GitLab Code Quality format.
func GenerateGitLab(projectRoot string, res *results.Results) ([]byte, error) {
	issues := make([]gitlabIssue, 0, res.TotalViolations())
	err := eachViolation(projectRoot, res, func(path string, v results.Violation, fp string) {
		issues = append(issues, gitlabIssue{
			Description: v.Suggestion,
			CheckName:   v.Rule,
			Fingerprint: fp,
			Severity:    "major",
			Location:    issueLocation{Path: path, Lines: issueLines{Begin: v.Span.Line}},
		})
	})
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(issues, "", "  ")
}

func eachViolation(projectRoot string, res *results.Results, fn func(path string, v results.Violation, fp string)) error {
	for _, file := range res.Paths() {
		path := relativeURI(projectRoot, file)
		seen := make(map[results.Violation]int)
		for _, v := range res.Files[file] {
			fp, err := fingerprint(v, path, seen[v])
			if err != nil {
				return err
			}
			seen[v]++
			fn(path, v, fp)
		}
	}
	return nil
}
