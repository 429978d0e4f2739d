package stats

import "math"

// LevelForTotalXP returns the level for a given XP total:
// floor(sqrt(totalXP / 100)) + 1, clamped to a minimum of 1.
// Level thresholds: 0 XP -> 1, 100 XP -> 2, 400 XP -> 3, 900 XP -> 4, ...
func LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalXP)/100.0))) + 1
}
