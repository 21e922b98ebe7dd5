package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialchef/chefvoice/internal/db"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS saved_recipes (
	id         BIGSERIAL   PRIMARY KEY,
	body       TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps one row per saved recipe, ordered by its serial id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, readFailed(err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, readFailed(err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT body FROM saved_recipes ORDER BY id ASC`)
	if err != nil {
		return nil, readFailed(err)
	}
	defer rows.Close()

	recipes := []string{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, readFailed(err)
		}
		recipes = append(recipes, body)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailed(err)
	}
	return recipes, nil
}

func (s *PostgresStore) Append(ctx context.Context, recipe string) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO saved_recipes (body) VALUES ($1)`, recipe); err != nil {
		return writeFailed(err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
