package events

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEvent marks a malformed domain event. Such events are
// rejected before any state is touched.
var ErrInvalidEvent = errors.New("invalid event")

// Type identifies the class of domain event. Matches the trigger_type
// values of the achievement catalog, so a rule can listen for it.
type Type string

const (
	TypeSetLogged          Type = "set_logged"
	TypeWorkoutCompleted   Type = "workout_complete"
	TypeNutritionLogged    Type = "nutrition_log"
	TypeMesocycleCompleted Type = "mesocycle_complete"

	// TypePRSet is not an inbound event, it is raised internally when a
	// logged set beats the stored PR, so that PR-triggered rules fire.
	TypePRSet Type = "pr_set"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeSetLogged,
		TypeWorkoutCompleted,
		TypeNutritionLogged,
		TypeMesocycleCompleted,
		TypePRSet:
		return true
	default:
		return false
	}
}

// SetLogged is emitted by the workout-logging collaborator, once per completed set.
type SetLogged struct {
	UserID     int64     `json:"userId"`
	SetID      int64     `json:"setId"`
	ExerciseID string    `json:"exerciseId"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	LoggedAt   time.Time `json:"loggedAt"`
}

func (e SetLogged) Validate() error {
	if e.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidEvent)
	}
	if e.ExerciseID == "" {
		return fmt.Errorf("%w: missing exercise id", ErrInvalidEvent)
	}
	if e.Weight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidEvent)
	}
	if e.Reps <= 0 {
		return fmt.Errorf("%w: reps must be positive", ErrInvalidEvent)
	}
	if e.LoggedAt.IsZero() {
		return fmt.Errorf("%w: missing logged at timestamp", ErrInvalidEvent)
	}
	return nil
}

// WorkoutCompleted is emitted once when a workout session is marked complete.
type WorkoutCompleted struct {
	UserID    int64     `json:"userId"`
	WorkoutID int64     `json:"workoutId"`
	Date      time.Time `json:"date"`
}

func (e WorkoutCompleted) Validate() error {
	if e.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidEvent)
	}
	if e.WorkoutID <= 0 {
		return fmt.Errorf("%w: missing workout id", ErrInvalidEvent)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidEvent)
	}
	return nil
}

// NutritionLogged is emitted once per food/water log entry.
type NutritionLogged struct {
	UserID int64     `json:"userId"`
	LogID  int64     `json:"logId"`
	Date   time.Time `json:"date"`
}

func (e NutritionLogged) Validate() error {
	if e.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidEvent)
	}
	if e.LogID <= 0 {
		return fmt.Errorf("%w: missing log id", ErrInvalidEvent)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidEvent)
	}
	return nil
}

// MesocycleCompleted is emitted once when a training cycle is marked complete.
type MesocycleCompleted struct {
	UserID      int64 `json:"userId"`
	MesocycleID int64 `json:"mesocycleId"`
}

func (e MesocycleCompleted) Validate() error {
	if e.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidEvent)
	}
	if e.MesocycleID <= 0 {
		return fmt.Errorf("%w: missing mesocycle id", ErrInvalidEvent)
	}
	return nil
}
