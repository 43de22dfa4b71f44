package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/missionctl/internal/db"
	"github.com/alexanderramin/missionctl/internal/domain"
)

// itemColumns is the canonical SELECT column list for items.
const itemColumns = `id, title, description, level, parent_id, status, deliverable_url,
		start_date, due_date, start_time, end_time, created_at, completed_at`

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

// NewSQLiteItemRepo creates a new SQLiteItemRepo. Pass the tx from
// UnitOfWork.WithinTx to run it inside a transaction.
func NewSQLiteItemRepo(db db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: db}
}

func (r *SQLiteItemRepo) Create(ctx context.Context, collection string, item *domain.Item) error {
	query := `INSERT INTO items (id, collection, title, description, level, parent_id, status,
		deliverable_url, start_date, due_date, start_time, end_time, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		collection,
		item.Title,
		item.Description,
		item.Level,
		nullableString(item.ParentID),
		string(item.Status),
		nullableString(item.DeliverableURL),
		item.StartDate,
		item.DueDate,
		item.StartTime,
		item.EndTime,
		item.CreatedAt.UTC().Format(timestampLayout),
		nullableTimeToString(item.CompletedAt, timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	if err := r.insertDependencies(ctx, item.ID, item.Dependencies); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, collection, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE collection = ? AND id = ?`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	deps, err := r.loadDependencies(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	item.Dependencies = deps[id]
	if item.Dependencies == nil {
		item.Dependencies = []string{}
	}
	return item, nil
}

// List returns every item of the collection in insertion order.
func (r *SQLiteItemRepo) List(ctx context.Context, collection string) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE collection = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	// Close before the next query: an in-memory database has one connection.
	rows.Close()

	deps, err := r.loadDependencies(ctx, collection, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Dependencies = deps[items[i].ID]
		if items[i].Dependencies == nil {
			items[i].Dependencies = []string{}
		}
	}
	return items, nil
}

func (r *SQLiteItemRepo) Update(ctx context.Context, collection, id string, patch ItemPatch) error {
	sets, args := patch.assignments()
	if len(sets) > 0 {
		query := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE collection = ? AND id = ?`
		args = append(args, collection, id)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		if err := requireAffected(res, id); err != nil {
			return err
		}
	} else if err := r.ensureExists(ctx, collection, id); err != nil {
		return err
	}

	if patch.Dependencies != nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM item_dependencies WHERE item_id = ?`, id); err != nil {
			return fmt.Errorf("clearing dependencies: %w", err)
		}
		if err := r.insertDependencies(ctx, id, *patch.Dependencies); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one item and its own dependency list. Children and
// references held by other items are left in place.
func (r *SQLiteItemRepo) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM item_dependencies WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting dependencies: %w", err)
	}
	return nil
}

// DeleteMany removes each id that exists and reports how many were deleted.
// Missing ids are skipped.
func (r *SQLiteItemRepo) DeleteMany(ctx context.Context, collection string, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		err := r.Delete(ctx, collection, id)
		if err == nil {
			deleted++
			continue
		}
		if !isNotFound(err) {
			return deleted, err
		}
	}
	return deleted, nil
}

func (r *SQLiteItemRepo) ensureExists(ctx context.Context, collection, id string) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE collection = ? AND id = ?`, collection, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) insertDependencies(ctx context.Context, itemID string, deps []string) error {
	seen := make(map[string]bool, len(deps))
	pos := 0
	for _, dep := range deps {
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO item_dependencies (item_id, depends_on_id, position) VALUES (?, ?, ?)`,
			itemID, dep, pos)
		if err != nil {
			return fmt.Errorf("inserting dependency: %w", err)
		}
		pos++
	}
	return nil
}

// loadDependencies returns dependency lists keyed by item id, for one item
// when itemID is set or the whole collection otherwise.
func (r *SQLiteItemRepo) loadDependencies(ctx context.Context, collection, itemID string) (map[string][]string, error) {
	query := `SELECT d.item_id, d.depends_on_id
		FROM item_dependencies d
		JOIN items i ON i.id = d.item_id
		WHERE i.collection = ?`
	args := []any{collection}
	if itemID != "" {
		query += ` AND d.item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY d.item_id, d.position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	deps := make(map[string][]string)
	for rows.Next() {
		var id, dep string
		if err := rows.Scan(&id, &dep); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps[id] = append(deps[id], dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func (p ItemPatch) assignments() ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.DeliverableURL != nil {
		add("deliverable_url", nullableString(*p.DeliverableURL))
	}
	if p.StartDate != nil {
		add("start_date", *p.StartDate)
	}
	if p.DueDate != nil {
		add("due_date", *p.DueDate)
	}
	if p.StartTime != nil {
		add("start_time", *p.StartTime)
	}
	if p.EndTime != nil {
		add("end_time", *p.EndTime)
	}
	if p.CompletedAt != nil {
		add("completed_at", nullableTimeToString(p.CompletedAt, timestampLayout))
	}
	return sets, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var statusStr, createdAtStr string
	var parentID, deliverableURL, completedAtStr sql.NullString

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Level, &parentID, &statusStr,
		&deliverableURL, &item.StartDate, &item.DueDate, &item.StartTime, &item.EndTime,
		&createdAtStr, &completedAtStr,
	)
	if err != nil {
		return nil, err
	}
	return populateItem(&item, statusStr, createdAtStr, parentID, deliverableURL, completedAtStr)
}

// populateItem fills in parsed fields on an Item after scanning raw values.
func populateItem(
	item *domain.Item,
	statusStr, createdAtStr string,
	parentID, deliverableURL, completedAtStr sql.NullString,
) (*domain.Item, error) {
	item.Status = domain.ItemStatus(statusStr)
	if parentID.Valid {
		item.ParentID = parentID.String
	}
	if deliverableURL.Valid {
		item.DeliverableURL = deliverableURL.String
	}
	item.CompletedAt = parseNullableTime(completedAtStr, timestampLayout)

	var err error
	item.CreatedAt, err = time.Parse(timestampLayout, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return item, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return nil
}
