package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS dashboard_activity (
		id         UUID PRIMARY KEY,
		action     TEXT NOT NULL,
		actor      TEXT NOT NULL,
		target     TEXT NOT NULL DEFAULT '',
		outcome    TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS dashboard_activity_created_at_idx
		ON dashboard_activity (created_at DESC);
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL activity repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the activity table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating activity schema: %w", err)
	}
	return nil
}

// Record stores an entry.
func (r *PostgresRepository) Record(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO dashboard_activity (id, action, actor, target, outcome, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		string(entry.Action),
		entry.Actor,
		entry.Target,
		string(entry.Outcome),
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

// List returns the most recent entries, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, action, actor, target, outcome, detail, created_at
		FROM dashboard_activity
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			action  string
			outcome string
		)
		if err := rows.Scan(&e.ID, &action, &e.Actor, &e.Target, &outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
