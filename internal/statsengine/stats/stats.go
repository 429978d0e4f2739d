package stats

import "time"

// PRRecord is the stored best for one exercise.
type PRRecord struct {
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	Date        time.Time `json:"date"`
	ReferenceID int64     `json:"referenceId"`
}

// UserStats is the denormalized per-user aggregate row. It is a cache:
// total_xp is authoritative in the XP ledger and must always agree with it.
// Only the engine mutates this, dashboards read it.
type UserStats struct {
	UserID int64 `json:"userId"`

	TotalWorkouts int     `json:"totalWorkouts"`
	TotalSets     int     `json:"totalSets"`
	TotalReps     int     `json:"totalReps"`
	TotalVolume   float64 `json:"totalVolume"`

	CurrentWorkoutStreak int        `json:"currentWorkoutStreak"`
	LongestWorkoutStreak int        `json:"longestWorkoutStreak"`
	LastWorkoutDate      *time.Time `json:"lastWorkoutDate,omitempty"`

	TotalPRs     int                 `json:"totalPrs"`
	PRByExercise map[string]PRRecord `json:"prByExercise"`

	MesocyclesCompleted int `json:"mesocyclesCompleted"`

	NutritionLogsCount     int        `json:"nutritionLogsCount"`
	CurrentNutritionStreak int        `json:"currentNutritionStreak"`
	LongestNutritionStreak int        `json:"longestNutritionStreak"`
	LastNutritionLogDate   *time.Time `json:"lastNutritionLogDate,omitempty"`

	TotalXP      int `json:"totalXp"`
	CurrentLevel int `json:"currentLevel"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns the zero-defaults row for a first-time user.
func New(userID int64) *UserStats {
	return &UserStats{
		UserID:       userID,
		PRByExercise: make(map[string]PRRecord),
		CurrentLevel: 1,
	}
}

func (s *UserStats) AddSet(reps int, weight float64) {
	s.TotalSets++
	s.TotalReps += reps
	s.TotalVolume += weight * float64(reps)
}

func (s *UserStats) AddWorkoutCompletion(date time.Time) {
	s.TotalWorkouts++
	s.CurrentWorkoutStreak, s.LongestWorkoutStreak = NextStreak(
		s.LastWorkoutDate, date, s.CurrentWorkoutStreak, s.LongestWorkoutStreak,
	)
	day := DayUTC(date)
	s.LastWorkoutDate = &day
}

func (s *UserStats) AddNutritionLog(date time.Time) {
	s.NutritionLogsCount++
	s.CurrentNutritionStreak, s.LongestNutritionStreak = NextStreak(
		s.LastNutritionLogDate, date, s.CurrentNutritionStreak, s.LongestNutritionStreak,
	)
	day := DayUTC(date)
	s.LastNutritionLogDate = &day
}

func (s *UserStats) AddMesocycleCompletion() {
	s.MesocyclesCompleted++
}

// PRFor returns the stored best for the exercise, nil if none yet.
func (s *UserStats) PRFor(exerciseID string) *PRRecord {
	if s.PRByExercise == nil {
		return nil
	}
	rec, ok := s.PRByExercise[exerciseID]
	if !ok {
		return nil
	}
	return &rec
}

// ApplyPR stores the new best for the exercise and bumps the PR counter.
// The caller decides whether the result is a PR, see IsNewPR.
func (s *UserStats) ApplyPR(exerciseID string, rec PRRecord) {
	if s.PRByExercise == nil {
		s.PRByExercise = make(map[string]PRRecord)
	}
	s.PRByExercise[exerciseID] = rec
	s.TotalPRs++
}

// AddXP bumps the cached XP total and recomputes the level.
// Must be accompanied by a ledger append in the same transaction.
func (s *UserStats) AddXP(amount int) {
	s.TotalXP += amount
	s.CurrentLevel = LevelForTotalXP(s.TotalXP)
}

// Clone returns a deep copy, used for post-update snapshots handed out
// to callers so later mutations don't leak through the map reference.
func (s *UserStats) Clone() *UserStats {
	clone := *s
	clone.PRByExercise = make(map[string]PRRecord, len(s.PRByExercise))
	for k, v := range s.PRByExercise {
		clone.PRByExercise[k] = v
	}
	if s.LastWorkoutDate != nil {
		d := *s.LastWorkoutDate
		clone.LastWorkoutDate = &d
	}
	if s.LastNutritionLogDate != nil {
		d := *s.LastNutritionLogDate
		clone.LastNutritionLogDate = &d
	}
	return &clone
}
