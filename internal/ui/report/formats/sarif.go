package formats

import (
	"encoding/json"
	"path/filepath"
	"phanalist/internal/engine/results"
	"phanalist/internal/engine/rules"
	"phanalist/internal/shared/version"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
	sarifLevel   = "warning"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	ID string `json:"id"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document with one rule per known rule
// and one result per violation. File URIs are made relative to projectRoot.
func GenerateSARIF(projectRoot string, res *results.Results, known []rules.Rule) ([]byte, error) {
	ruleIndex := make(map[string]int, len(known))
	sarifRules := make([]sarifRule, 0, len(known))
	for i, rule := range known {
		ruleIndex[rule.Code()] = i
		sarifRules = append(sarifRules, sarifRule{
			ID:               rule.Code(),
			Name:             rule.Code(),
			ShortDescription: sarifMessage{Text: rule.Description()},
			DefaultConfig:    sarifRuleDefaultConfig{Level: sarifLevel},
		})
	}

	out := make([]sarifResult, 0, res.TotalViolations())
	for _, path := range res.Paths() {
		uri := relativeURI(projectRoot, path)
		for _, v := range res.Files[path] {
			index, ok := ruleIndex[v.Rule]
			if !ok {
				index = -1
			}
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       uri,
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if v.Span.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   v.Span.Line,
					StartColumn: v.Span.Column,
				}
			}
			out = append(out, sarifResult{
				RuleID:    v.Rule,
				RuleIndex: index,
				Level:     sarifLevel,
				Message:   sarifMessage{Text: v.Suggestion},
				Locations: []sarifLocation{loc},
			})
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "phanalist",
						Version: version.Version,
						Rules:   sarifRules,
					},
				},
				AutomationDetails: sarifAutomationDetails{ID: "phanalist/" + uuid.NewString()},
				Results:           out,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		if root, err := filepath.Abs(projectRoot); err == nil {
			if rel, err := filepath.Rel(root, filePath); err == nil {
				filePath = rel
			}
		}
	}
	return filepath.ToSlash(filePath)
}
