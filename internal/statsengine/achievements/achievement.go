package achievements

import (
	"time"

	"github.com/liftlog/statsengine/internal/statsengine/events"
	"github.com/liftlog/statsengine/internal/statsengine/stats"
)

type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryConsistency Category = "consistency"
	CategoryNutrition   Category = "nutrition"
	CategoryMilestone   Category = "milestone"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Metric is the closed set of aggregate fields a rule can target.
// An unrecognized metric in the catalog never unlocks anything.
type Metric string

const (
	MetricWorkoutCount    Metric = "workout_count"
	MetricWorkoutStreak   Metric = "workout_streak"
	MetricPRCount         Metric = "pr_count"
	MetricTotalVolume     Metric = "total_volume"
	MetricMesocycleCount  Metric = "mesocycle_count"
	MetricNutritionStreak Metric = "nutrition_streak"
	MetricNutritionCount  Metric = "nutrition_count"
	MetricSetCount        Metric = "set_count"
	MetricRepCount        Metric = "rep_count"
)

func (m Metric) IsValid() bool {
	_, ok := m.valueFrom(&stats.UserStats{})
	return ok
}

// valueFrom reads the metric's field from the aggregate snapshot.
// Returns false for unknown metrics (fail closed).
func (m Metric) valueFrom(snapshot *stats.UserStats) (float64, bool) {
	switch m {
	case MetricWorkoutCount:
		return float64(snapshot.TotalWorkouts), true
	case MetricWorkoutStreak:
		return float64(snapshot.CurrentWorkoutStreak), true
	case MetricPRCount:
		return float64(snapshot.TotalPRs), true
	case MetricTotalVolume:
		return snapshot.TotalVolume, true
	case MetricMesocycleCount:
		return float64(snapshot.MesocyclesCompleted), true
	case MetricNutritionStreak:
		return float64(snapshot.CurrentNutritionStreak), true
	case MetricNutritionCount:
		return float64(snapshot.NutritionLogsCount), true
	case MetricSetCount:
		return float64(snapshot.TotalSets), true
	case MetricRepCount:
		return float64(snapshot.TotalReps), true
	default:
		return 0, false
	}
}

// Achievement is one row of the static rule catalog.
type Achievement struct {
	ID          int64       `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	TriggerType events.Type `json:"triggerType"`
	Metric      Metric      `json:"metric"`
	Target      float64     `json:"target"`
	XPReward    int         `json:"xpReward"`
	Rarity      Rarity      `json:"rarity"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Unlock is one earned achievement. Created exactly once per
// (user, achievement), only the seen flag ever changes afterwards.
type Unlock struct {
	UserID        int64     `json:"userId"`
	AchievementID int64     `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
	Seen          bool      `json:"seen"`

	// catalog fields joined in for presentation
	Code     string `json:"code"`
	Name     string `json:"name"`
	XPReward int    `json:"xpReward"`
	Rarity   Rarity `json:"rarity"`
}
