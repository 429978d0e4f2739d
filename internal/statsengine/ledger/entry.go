package ledger

import "time"

// XP grant sources. The ledger is append-only and authoritative:
// the cached total on user_stats is derived from it, never the other
// way around.
const (
	SourceWorkoutComplete   = "workout_complete"
	SourcePRSet             = "pr_set"
	SourceNutritionLog      = "nutrition_log"
	SourceMesocycleComplete = "mesocycle_complete"

	achievementSourcePrefix = "achievement:"
)

// AchievementSource tags a grant caused by unlocking the given achievement.
func AchievementSource(code string) string {
	return achievementSourcePrefix + code
}

// Entry is one immutable XP grant. Never updated or deleted once written.
type Entry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Amount      int       `json:"amount"`
	Source      string    `json:"source"`
	ReferenceID int64     `json:"referenceId"`
	CreatedAt   time.Time `json:"createdAt"`
}
