package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/statsengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const userStatsColumns = `
	user_id,
	total_workouts, total_sets, total_reps, total_volume,
	current_workout_streak, longest_workout_streak, last_workout_date,
	total_prs, pr_by_exercise,
	mesocycles_completed,
	nutrition_logs_count, current_nutrition_streak, longest_nutrition_streak, last_nutrition_log_date,
	total_xp, current_level,
	created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Get returns the stats snapshot for a user. Users that never produced
// an event get the zero-defaults snapshot, same as after lazy creation.
func (r *Repo) Get(ctx context.Context, userID int64) (_ *UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	row := r.db.QueryRow(ctx,
		`SELECT `+userStatsColumns+` FROM user_stats WHERE user_id = $1;`,
		userID,
	)

	userStats, err := scanUserStats(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user stats: %w", err)
	}
	return userStats, nil
}

// GetForUpdate lazily creates the row if missing, then locks it for the
// duration of the surrounding transaction. All event processing for the
// same user serializes on this lock.
func (r *Repo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (_ *UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.getforupdate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_stats (user_id, pr_by_exercise)
		VALUES ($1, '{}'::jsonb)
		ON CONFLICT (user_id) DO NOTHING;
	`, userID); err != nil {
		return nil, fmt.Errorf("ensure user stats row: %w", err)
	}

	row := tx.QueryRow(ctx,
		`SELECT `+userStatsColumns+` FROM user_stats WHERE user_id = $1 FOR UPDATE;`,
		userID,
	)

	userStats, err := scanUserStats(row)
	if err != nil {
		return nil, fmt.Errorf("scan user stats: %w", err)
	}
	return userStats, nil
}

// Save writes the whole row back. Call only with the row locked via GetForUpdate.
func (r *Repo) Save(ctx context.Context, tx pgx.Tx, userStats *UserStats) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userStats.UserID))

	prJson, err := json.Marshal(userStats.PRByExercise)
	if err != nil {
		return fmt.Errorf("marshal pr map: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE user_stats SET
			total_workouts = $2, total_sets = $3, total_reps = $4, total_volume = $5,
			current_workout_streak = $6, longest_workout_streak = $7, last_workout_date = $8,
			total_prs = $9, pr_by_exercise = $10,
			mesocycles_completed = $11,
			nutrition_logs_count = $12, current_nutrition_streak = $13,
			longest_nutrition_streak = $14, last_nutrition_log_date = $15,
			total_xp = $16, current_level = $17,
			updated_at = now()
		WHERE user_id = $1;
	`,
		userStats.UserID,
		userStats.TotalWorkouts, userStats.TotalSets, userStats.TotalReps, userStats.TotalVolume,
		userStats.CurrentWorkoutStreak, userStats.LongestWorkoutStreak, userStats.LastWorkoutDate,
		userStats.TotalPRs, prJson,
		userStats.MesocyclesCompleted,
		userStats.NutritionLogsCount, userStats.CurrentNutritionStreak,
		userStats.LongestNutritionStreak, userStats.LastNutritionLogDate,
		userStats.TotalXP, userStats.CurrentLevel,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user stats row for user %d vanished mid-transaction", userStats.UserID)
	}
	return nil
}

func scanUserStats(row pgx.Row) (*UserStats, error) {
	var s UserStats
	var prBytes []byte
	var lastWorkoutDate, lastNutritionLogDate *time.Time

	if err := row.Scan(
		&s.UserID,
		&s.TotalWorkouts, &s.TotalSets, &s.TotalReps, &s.TotalVolume,
		&s.CurrentWorkoutStreak, &s.LongestWorkoutStreak, &lastWorkoutDate,
		&s.TotalPRs, &prBytes,
		&s.MesocyclesCompleted,
		&s.NutritionLogsCount, &s.CurrentNutritionStreak, &s.LongestNutritionStreak, &lastNutritionLogDate,
		&s.TotalXP, &s.CurrentLevel,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.LastWorkoutDate = lastWorkoutDate
	s.LastNutritionLogDate = lastNutritionLogDate

	s.PRByExercise = make(map[string]PRRecord)
	if len(prBytes) > 0 {
		if err := json.Unmarshal(prBytes, &s.PRByExercise); err != nil {
			return nil, fmt.Errorf("unmarshal pr map for user %d: %w", s.UserID, err)
		}
	}

	return &s, nil
}
