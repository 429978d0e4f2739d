package achievements

import (
	"github.com/liftlog/statsengine/internal/statsengine/stats"
)

// Evaluate checks each candidate rule against the aggregate snapshot and
// returns the ones whose metric reached the target. Candidates are assumed
// to be pre-filtered to locked rules matching the trigger type; evaluation
// itself never triggers further evaluation.
func Evaluate(candidates []Achievement, snapshot *stats.UserStats) []Achievement {
	var unlocked []Achievement
	for _, a := range candidates {
		value, ok := a.Metric.valueFrom(snapshot)
		if !ok {
			continue
		}
		if value >= a.Target {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
