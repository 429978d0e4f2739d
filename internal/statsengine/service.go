package statsengine

import (
	"context"
	"fmt"

	"github.com/liftlog/statsengine/internal/statsengine/achievements"
	"github.com/liftlog/statsengine/internal/statsengine/events"
	"github.com/liftlog/statsengine/internal/statsengine/ledger"
	"github.com/liftlog/statsengine/internal/statsengine/stats"
	"github.com/liftlog/statsengine/internal/telemetry/metrics"
	"github.com/liftlog/statsengine/internal/telemetry/tracing"
	"github.com/liftlog/statsengine/pkg"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// XP amounts per event kind. A logged set grants no XP on its own,
// only the PR it may produce does.
const (
	XPPerWorkout      = 100
	XPPerNutritionLog = 50
	XPPerPR           = 200
	XPPerMesocycle    = 500
)

// Result is what one processed event changed.
type Result struct {
	Stats                *stats.UserStats `json:"stats"`
	NewPR                *stats.PRRecord  `json:"newPr,omitempty"`
	UnlockedAchievements []string         `json:"unlockedAchievements,omitempty"`
	XPGranted            int              `json:"xpGranted"`
}

// Service applies domain events to the per-user aggregate. Each event is
// processed in one transaction holding a row lock on the user's stats, so
// concurrent events for the same user serialize and streaks, PRs and XP
// stay consistent.
type Service struct {
	db           *pgxpool.Pool
	stats        *stats.Repo
	ledger       *ledger.Repo
	achievements *achievements.Repo
	metrics      *metrics.Manager
	maxRetries   int
}

func NewService(
	db *pgxpool.Pool,
	statsRepo *stats.Repo,
	ledgerRepo *ledger.Repo,
	achievementsRepo *achievements.Repo,
	metricsManager *metrics.Manager,
	maxRetries int,
) *Service {
	return &Service{
		db:           db,
		stats:        statsRepo,
		ledger:       ledgerRepo,
		achievements: achievementsRepo,
		metrics:      metricsManager,
		maxRetries:   maxRetries,
	}
}

func (s *Service) HandleSetLogged(ctx context.Context, event events.SetLogged) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.statsengine.setlogged")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", event.UserID))

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return s.process(ctx, events.TypeSetLogged, event.UserID, func(ctx context.Context, tx pgx.Tx, userStats *stats.UserStats) (*txOutcome, error) {
		userStats.AddSet(event.Reps, event.Weight)

		outcome := &txOutcome{triggers: []events.Type{events.TypeSetLogged}}

		if stats.IsNewPR(userStats.PRFor(event.ExerciseID), event.Weight, event.Reps) {
			rec := stats.PRRecord{
				Weight:      event.Weight,
				Reps:        event.Reps,
				Date:        event.LoggedAt,
				ReferenceID: event.SetID,
			}
			userStats.ApplyPR(event.ExerciseID, rec)
			outcome.newPR = &rec
			outcome.triggers = append(outcome.triggers, events.TypePRSet)

			if err := s.grantXP(ctx, tx, userStats, ledger.Entry{
				UserID:      event.UserID,
				Amount:      XPPerPR,
				Source:      ledger.SourcePRSet,
				ReferenceID: event.SetID,
			}, outcome); err != nil {
				return nil, err
			}
		}

		return outcome, nil
	})
}

func (s *Service) HandleWorkoutCompleted(ctx context.Context, event events.WorkoutCompleted) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.statsengine.workoutcompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", event.UserID))

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return s.process(ctx, events.TypeWorkoutCompleted, event.UserID, func(ctx context.Context, tx pgx.Tx, userStats *stats.UserStats) (*txOutcome, error) {
		userStats.AddWorkoutCompletion(event.Date)

		outcome := &txOutcome{triggers: []events.Type{events.TypeWorkoutCompleted}}
		if err := s.grantXP(ctx, tx, userStats, ledger.Entry{
			UserID:      event.UserID,
			Amount:      XPPerWorkout,
			Source:      ledger.SourceWorkoutComplete,
			ReferenceID: event.WorkoutID,
		}, outcome); err != nil {
			return nil, err
		}
		return outcome, nil
	})
}

func (s *Service) HandleNutritionLogged(ctx context.Context, event events.NutritionLogged) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.statsengine.nutritionlogged")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", event.UserID))

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return s.process(ctx, events.TypeNutritionLogged, event.UserID, func(ctx context.Context, tx pgx.Tx, userStats *stats.UserStats) (*txOutcome, error) {
		userStats.AddNutritionLog(event.Date)

		outcome := &txOutcome{triggers: []events.Type{events.TypeNutritionLogged}}
		if err := s.grantXP(ctx, tx, userStats, ledger.Entry{
			UserID:      event.UserID,
			Amount:      XPPerNutritionLog,
			Source:      ledger.SourceNutritionLog,
			ReferenceID: event.LogID,
		}, outcome); err != nil {
			return nil, err
		}
		return outcome, nil
	})
}

func (s *Service) HandleMesocycleCompleted(ctx context.Context, event events.MesocycleCompleted) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.statsengine.mesocyclecompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", event.UserID))

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return s.process(ctx, events.TypeMesocycleCompleted, event.UserID, func(ctx context.Context, tx pgx.Tx, userStats *stats.UserStats) (*txOutcome, error) {
		userStats.AddMesocycleCompletion()

		outcome := &txOutcome{triggers: []events.Type{events.TypeMesocycleCompleted}}
		if err := s.grantXP(ctx, tx, userStats, ledger.Entry{
			UserID:      event.UserID,
			Amount:      XPPerMesocycle,
			Source:      ledger.SourceMesocycleComplete,
			ReferenceID: event.MesocycleID,
		}, outcome); err != nil {
			return nil, err
		}
		return outcome, nil
	})
}

// GetStats reads the aggregate snapshot, zero-defaults for unseen users.
func (s *Service) GetStats(ctx context.Context, userID int64) (*stats.UserStats, error) {
	return s.stats.Get(ctx, userID)
}

// VerifyLedger recomputes the ledger sum for a user and compares it to the
// cached total. Used by the audit endpoint and tests.
func (s *Service) VerifyLedger(ctx context.Context, userID int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.statsengine.verifyledger")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userStats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return err
	}
	sum, err := s.ledger.SumForUser(ctx, userID)
	if err != nil {
		return err
	}
	if sum != userStats.TotalXP {
		return fmt.Errorf("%w: user %d, cached %d, ledger %d",
			ErrConsistencyViolation, userID, userStats.TotalXP, sum)
	}
	return nil
}

// txOutcome accumulates what the event mutation produced inside the
// transaction, before achievements are evaluated.
type txOutcome struct {
	triggers  []events.Type
	newPR     *stats.PRRecord
	unlocked  []string
	xpGranted int
}

type applyFunc func(ctx context.Context, tx pgx.Tx, userStats *stats.UserStats) (*txOutcome, error)

// process runs one event transaction: lock the aggregate row, apply the
// mutation, evaluate achievement rules for the produced triggers, audit
// the XP total against the ledger, save and commit. Lock and
// serialization conflicts are retried with backoff.
func (s *Service) process(
	ctx context.Context,
	eventType events.Type,
	userID int64,
	apply applyFunc,
) (*Result, error) {
	var result *Result

	run := func() error {
		res, err := s.processOnce(ctx, userID, apply)
		if err != nil {
			if isRetryableConflict(err) {
				s.metrics.CounterEventConflictRetries.Inc()
				log.Warnf("event %s for user %d hit a conflict, retrying: %s", eventType, userID, err)
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	err := backoff.Retry(run, backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(s.maxRetries)), ctx,
	))
	if err != nil {
		s.metrics.CounterEventsProcessed.WithLabelValues(eventType.String(), "error").Inc()
		if isRetryableConflict(err) {
			return nil, fmt.Errorf("%w: %s event for user %d", ErrConcurrencyConflict, eventType, userID)
		}
		return nil, err
	}

	s.metrics.CounterEventsProcessed.WithLabelValues(eventType.String(), "ok").Inc()
	return result, nil
}

func (s *Service) processOnce(
	ctx context.Context,
	userID int64,
	apply applyFunc,
) (_ *Result, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin event tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
				log.Errorf("rollback event tx for user %d: %s", userID, rollbackErr)
			}
		}
	}()

	userStats, err := s.stats.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	outcome, err := apply(ctx, tx, userStats)
	if err != nil {
		return nil, err
	}

	if err := s.evaluateAchievements(ctx, tx, userStats, outcome); err != nil {
		return nil, err
	}

	ledgerSum, err := s.ledger.SumForUserTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if ledgerSum != userStats.TotalXP {
		return nil, fmt.Errorf("%w: user %d, cached %d, ledger %d",
			ErrConsistencyViolation, userID, userStats.TotalXP, ledgerSum)
	}

	if err := s.stats.Save(ctx, tx, userStats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit event tx: %w", err)
	}

	return &Result{
		Stats:                userStats.Clone(),
		NewPR:                outcome.newPR,
		UnlockedAchievements: outcome.unlocked,
		XPGranted:            outcome.xpGranted,
	}, nil
}

// evaluateAchievements runs the rule catalog against the mutated
// aggregate for every trigger the event produced. Unlock rewards are
// granted through the ledger like any other XP, but an unlock never
// produces further triggers, evaluation is terminal.
func (s *Service) evaluateAchievements(
	ctx context.Context,
	tx pgx.Tx,
	userStats *stats.UserStats,
	outcome *txOutcome,
) error {
	for _, trigger := range outcome.triggers {
		candidates, err := s.achievements.ListCandidates(ctx, tx, userStats.UserID, trigger)
		if err != nil {
			return err
		}

		for _, unlocked := range achievements.Evaluate(candidates, userStats) {
			inserted, err := s.achievements.InsertUnlock(ctx, tx, userStats.UserID, unlocked.ID)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}

			if unlocked.XPReward > 0 {
				if err := s.grantXP(ctx, tx, userStats, ledger.Entry{
					UserID:      userStats.UserID,
					Amount:      unlocked.XPReward,
					Source:      ledger.AchievementSource(unlocked.Code),
					ReferenceID: unlocked.ID,
				}, outcome); err != nil {
					return err
				}
			}

			outcome.unlocked = append(outcome.unlocked, unlocked.Code)
			s.metrics.CounterAchievementsUnlocked.Inc()
			log.Debugf("user %d unlocked achievement %s", userStats.UserID, unlocked.Code)
		}
	}
	return nil
}

func (s *Service) grantXP(
	ctx context.Context,
	tx pgx.Tx,
	userStats *stats.UserStats,
	entry ledger.Entry,
	outcome *txOutcome,
) error {
	if _, err := s.ledger.Append(ctx, tx, entry); err != nil {
		return err
	}
	userStats.AddXP(entry.Amount)
	outcome.xpGranted += entry.Amount
	s.metrics.CounterXPGranted.Add(float64(entry.Amount))
	return nil
}

func isRetryableConflict(err error) bool {
	return pkg.IsSerializationFailureError(err) ||
		pkg.IsDeadlockDetectedError(err) ||
		pkg.IsLockNotAvailableError(err)
}
