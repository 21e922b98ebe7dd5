package store

import (
	"context"
	"database/sql"

	"github.com/socialchef/chefvoice/internal/db"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saved_recipes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	body       TEXT    NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
)`

// SQLiteStore keeps one row per saved recipe; the autoincrement id is the save order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	d, err := db.OpenSQLite(path)
	if err != nil {
		return nil, readFailed(err)
	}
	if _, err := d.ExecContext(ctx, sqliteSchema); err != nil {
		d.Close()
		return nil, readFailed(err)
	}
	return &SQLiteStore{db: d}, nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM saved_recipes ORDER BY id ASC`)
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

func (s *SQLiteStore) Append(ctx context.Context, recipe string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO saved_recipes (body) VALUES (?)`, recipe); err != nil {
		return writeFailed(err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
