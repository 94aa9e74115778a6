package formats

import (
	"encoding/json"
	"phanalist/internal/engine/results"
)

type jsonReport struct {
	Files           map[string][]results.Violation `json:"files"`
	CodesCount      map[string]int                 `json:"codes_count"`
	TotalFilesCount int                            `json:"total_files_count"`
	DurationMS      int64                          `json:"duration_ms"`
}

// GenerateJSON renders the scan aggregate. Map keys are sorted by the
// encoder, so equal results render identically.
func GenerateJSON(res *results.Results) ([]byte, error) {
	report := jsonReport{
		Files:           res.Files,
		CodesCount:      res.CodesCount,
		TotalFilesCount: res.TotalFilesCount,
		DurationMS:      res.Duration.Milliseconds(),
	}
	if report.Files == nil {
		report.Files = map[string][]results.Violation{}
	}
	if report.CodesCount == nil {
		report.CodesCount = map[string]int{}
	}
	return json.MarshalIndent(report, "", "  ")
}
