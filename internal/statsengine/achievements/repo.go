package achievements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/statsengine/internal/statsengine/events"
	"github.com/liftlog/statsengine/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrUnlockNotFound = errors.New("achievement unlock not found")

const achievementColumns = `
	id, code, name, description, category,
	trigger_type, metric, target, xp_reward, rarity, created_at`

var catalogCacheKey = []byte("achievements::catalog")

type Repo struct {
	db              *pgxpool.Pool
	cache           *freecache.Cache
	catalogCacheTTL time.Duration
}

func NewRepo(db *pgxpool.Pool, catalogCacheTTL time.Duration) *Repo {
	megabyte := 1024 * 1024
	return &Repo{
		db:              db,
		cache:           freecache.NewCache(2 * megabyte),
		catalogCacheTTL: catalogCacheTTL,
	}
}

// ListCatalog returns the full rule catalog. The catalog is static
// seed data, so it is cached aggressively.
func (r *Repo) ListCatalog(ctx context.Context) (_ []Achievement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.listcatalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cachedBytes, err := r.cache.Get(catalogCacheKey); err == nil {
		var catalog []Achievement
		if err = json.Unmarshal(cachedBytes, &catalog); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return catalog, nil
		}
		log.Errorf("failed to unmarshal cached achievements catalog: %s", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+achievementColumns+` FROM achievement ORDER BY id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query achievements catalog: %w", err)
	}
	defer rows.Close()

	catalog, err := scanAchievements(rows)
	if err != nil {
		return nil, err
	}

	if catalogBytes, err := json.Marshal(catalog); err != nil {
		log.Errorf("failed to marshal achievements catalog for cache: %s", err)
	} else if err := r.cache.Set(catalogCacheKey, catalogBytes, int(r.catalogCacheTTL.Seconds())); err != nil {
		log.Errorf("failed to cache achievements catalog: %s", err)
	}

	return catalog, nil
}

// ListCandidates returns the rules matching the trigger type that the
// user has not unlocked yet. Runs inside the event transaction so the
// candidate set is consistent with the row lock held on the aggregate.
func (r *Repo) ListCandidates(
	ctx context.Context,
	tx pgx.Tx,
	userID int64,
	trigger events.Type,
) (_ []Achievement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.listcandidates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))
	span.SetAttributes(attribute.String("trigger", trigger.String()))

	rows, err := tx.Query(ctx, `
		SELECT `+achievementColumns+`
		FROM achievement a
		WHERE a.trigger_type = $1
		AND NOT EXISTS (
			SELECT 1 FROM user_achievement ua
			WHERE ua.user_id = $2 AND ua.achievement_id = a.id
		)
		ORDER BY a.id;`,
		trigger.String(), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query achievement candidates: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// InsertUnlock records the unlock. Returns false without error when the
// achievement was already unlocked, so a replayed event grants nothing.
func (r *Repo) InsertUnlock(
	ctx context.Context,
	tx pgx.Tx,
	userID, achievementID int64,
) (inserted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.insertunlock")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))
	span.SetAttributes(attribute.Int64("achievement.id", achievementID))

	tag, err := tx.Exec(ctx, `
		INSERT INTO user_achievement (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING;`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("insert achievement unlock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListUnseen returns unlocks not yet acknowledged by the user, newest first.
func (r *Repo) ListUnseen(ctx context.Context, userID int64) (_ []Unlock, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.listunseen")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT
			ua.user_id, ua.achievement_id, ua.unlocked_at, ua.seen,
			a.code, a.name, a.xp_reward, a.rarity
		FROM user_achievement ua
		JOIN achievement a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 AND ua.seen = FALSE
		ORDER BY ua.unlocked_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query unseen achievements: %w", err)
	}
	defer rows.Close()

	var unlocks []Unlock
	for rows.Next() {
		var u Unlock
		if err := rows.Scan(
			&u.UserID, &u.AchievementID, &u.UnlockedAt, &u.Seen,
			&u.Code, &u.Name, &u.XPReward, &u.Rarity,
		); err != nil {
			return nil, fmt.Errorf("scan unseen achievement: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unlocks, nil
}

// MarkSeen acknowledges one unlock.
func (r *Repo) MarkSeen(ctx context.Context, userID, achievementID int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.markseen")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))
	span.SetAttributes(attribute.Int64("achievement.id", achievementID))

	tag, err := r.db.Exec(ctx, `
		UPDATE user_achievement SET seen = TRUE
		WHERE user_id = $1 AND achievement_id = $2;`,
		userID, achievementID,
	)
	if err != nil {
		return fmt.Errorf("mark achievement seen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUnlockNotFound
	}

	return nil
}

func scanAchievements(rows pgx.Rows) ([]Achievement, error) {
	var catalog []Achievement
	for rows.Next() {
		var a Achievement
		var triggerType string
		if err := rows.Scan(
			&a.ID, &a.Code, &a.Name, &a.Description, &a.Category,
			&triggerType, &a.Metric, &a.Target, &a.XPReward, &a.Rarity, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.TriggerType = events.Type(triggerType)
		catalog = append(catalog, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}
