package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/missionctl/internal/db"
)

// SQLiteVersionRepo implements VersionRepo over the collection_versions table.
type SQLiteVersionRepo struct {
	db db.DBTX
}

func NewSQLiteVersionRepo(db db.DBTX) *SQLiteVersionRepo {
	return &SQLiteVersionRepo{db: db}
}

// Bump increments the collection's counter and returns the new value.
func (r *SQLiteVersionRepo) Bump(ctx context.Context, collection string) (int64, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO collection_versions (collection, version) VALUES (?, 1)
		ON CONFLICT(collection) DO UPDATE SET version = version + 1`, collection)
	if err != nil {
		return 0, fmt.Errorf("bumping collection version: %w", err)
	}
	return r.Get(ctx, collection)
}

// Get returns the collection's counter, 0 for a collection never written.
func (r *SQLiteVersionRepo) Get(ctx context.Context, collection string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM collection_versions WHERE collection = ?`, collection).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection version: %w", err)
	}
	return v, nil
}
