package history

import "fmt"

// BuildTrend turns snapshots, oldest first, into points carrying the change
// from the previous scan. Rules that did not change are left out of
// DeltaRules.
func BuildTrend(snapshots []Snapshot) ([]TrendPoint, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			RunID:          current.RunID,
			Timestamp:      current.Timestamp,
			FileCount:      current.FileCount,
			ViolationCount: current.ViolationCount,
		}
		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaViolations = current.ViolationCount - prev.ViolationCount
			point.DeltaRules = ruleDeltas(prev.RuleCounts, current.RuleCounts)
		}
		points = append(points, point)
	}
	return points, nil
}

func ruleDeltas(prev, current map[string]int) map[string]int {
	out := make(map[string]int)
	for code, n := range current {
		if d := n - prev[code]; d != 0 {
			out[code] = d
		}
	}
	for code, n := range prev {
		if _, ok := current[code]; !ok && n != 0 {
			out[code] = -n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
