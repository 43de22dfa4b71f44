package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the whole
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The items table mirrors a schemaless document collection: parent_id and
// depends_on_id are plain text with no foreign keys, so deleting a parent
// leaves its children (and any dependency references) in place.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		collection      TEXT NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		level           INTEGER NOT NULL CHECK(level BETWEEN 1 AND 5),
		parent_id       TEXT,
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK(status IN ('pending','complete')),
		deliverable_url TEXT,
		start_date      TEXT NOT NULL DEFAULT '',
		due_date        TEXT NOT NULL DEFAULT '',
		start_time      TEXT NOT NULL DEFAULT '',
		end_time        TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		completed_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_items_collection ON items(collection)`,
	`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id)`,

	`CREATE TABLE IF NOT EXISTS item_dependencies (
		item_id       TEXT NOT NULL,
		depends_on_id TEXT NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (item_id, depends_on_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_item_dependencies_target ON item_dependencies(depends_on_id)`,

	// Bumped on every write; the store's watcher compares it to tell its
	// own writes apart from another process's.
	`CREATE TABLE IF NOT EXISTS collection_versions (
		collection TEXT PRIMARY KEY,
		version    INTEGER NOT NULL DEFAULT 0
	)`,
}
