package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/liftlog/statsengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNonPositiveGrant = errors.New("xp grant amount must be positive")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Append writes one grant inside the caller's event transaction.
func (r *Repo) Append(ctx context.Context, tx pgx.Tx, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", entry.UserID))
	span.SetAttributes(attribute.String("source", entry.Source))
	span.SetAttributes(attribute.Int("amount", entry.Amount))

	if entry.Amount <= 0 {
		return nil, ErrNonPositiveGrant
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO xp_ledger (user_id, amount, source, reference_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`,
		entry.UserID, entry.Amount, entry.Source, entry.ReferenceID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}

	return &entry, nil
}

// SumForUserTx sums all grants for a user within the given transaction.
// Used by the dispatcher to audit the cached total before commit.
func (r *Repo) SumForUserTx(ctx context.Context, tx pgx.Tx, userID int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.sumforusertx")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	var sum int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM xp_ledger WHERE user_id = $1;`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum ledger for user %d: %w", userID, err)
	}
	return sum, nil
}

// SumForUser is the out-of-transaction variant, for audits.
func (r *Repo) SumForUser(ctx context.Context, userID int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.sumforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	var sum int
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM xp_ledger WHERE user_id = $1;`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum ledger for user %d: %w", userID, err)
	}
	return sum, nil
}

// ListForUser returns the grant history, newest first.
func (r *Repo) ListForUser(ctx context.Context, userID int64, limit int) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.listforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, source, reference_id, created_at
		FROM xp_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2;
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Source, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
