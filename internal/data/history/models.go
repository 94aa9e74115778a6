package history

import (
	"phanalist/internal/engine/results"
	"time"

	"github.com/google/uuid"
)

const SchemaVersion = 1

// Snapshot is the recorded summary of one scan.
type Snapshot struct {
	RunID          string         `json:"run_id"`
	ProjectKey     string         `json:"project_key"`
	SchemaVersion  int            `json:"schema_version"`
	Timestamp      time.Time      `json:"timestamp"`
	Src            string         `json:"src"`
	FileCount      int            `json:"file_count"`
	ViolationCount int            `json:"violation_count"`
	Duration       time.Duration  `json:"duration"`
	RuleCounts     map[string]int `json:"rule_counts"`
}

// NewSnapshot summarises res under a fresh run ID.
func NewSnapshot(src string, res *results.Results) Snapshot {
	counts := make(map[string]int, len(res.CodesCount))
	for code, n := range res.CodesCount {
		counts[code] = n
	}
	return Snapshot{
		RunID:          uuid.NewString(),
		SchemaVersion:  SchemaVersion,
		Timestamp:      time.Now().UTC(),
		Src:            src,
		FileCount:      res.TotalFilesCount,
		ViolationCount: res.TotalViolations(),
		Duration:       res.Duration,
		RuleCounts:     counts,
	}
}

type TrendPoint struct {
	RunID           string         `json:"run_id"`
	Timestamp       time.Time      `json:"timestamp"`
	FileCount       int            `json:"file_count"`
	ViolationCount  int            `json:"violation_count"`
	DeltaFiles      int            `json:"delta_files"`
	DeltaViolations int            `json:"delta_violations"`
	DeltaRules      map[string]int `json:"delta_rules,omitempty"`
}
