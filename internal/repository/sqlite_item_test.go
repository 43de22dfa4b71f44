package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/missionctl/internal/db"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = "artifacts/app/users/u1/mission_items"

func newItemRepo(t *testing.T) *SQLiteItemRepo {
	t.Helper()
	return NewSQLiteItemRepo(testutil.NewTestDB(t))
}

func ptr[T any](v T) *T { return &v }

func TestItemRepo_CreateAndGet(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	mission := testutil.NewTestItem("Launch", testutil.WithDescription("ship it"), testutil.WithDates("2025-06-01", "2025-06-30"))
	require.NoError(t, repo.Create(ctx, testCollection, &mission))

	task := testutil.NewTestItem("Build", testutil.WithParent(mission),
		testutil.WithAgendaSlot("09:00", "10:00"), testutil.WithDependencies("b", "a"))
	require.NoError(t, repo.Create(ctx, testCollection, &task))

	got, err := repo.GetByID(ctx, testCollection, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Title)
	assert.Equal(t, "ship it", got.Description)
	assert.Equal(t, domain.LevelMission, got.Level)
	assert.Empty(t, got.ParentID)
	assert.Equal(t, domain.ItemPending, got.Status)
	assert.Equal(t, "2025-06-01", got.StartDate)
	assert.Equal(t, "2025-06-30", got.DueDate)
	assert.True(t, mission.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, []string{}, got.Dependencies)

	got, err = repo.GetByID(ctx, testCollection, task.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.ID, got.ParentID)
	assert.Equal(t, domain.LevelTask, got.Level)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, []string{"b", "a"}, got.Dependencies, "dependency order is preserved")
}

func TestItemRepo_GetByID_NotFound(t *testing.T) {
	repo := newItemRepo(t)
	_, err := repo.GetByID(context.Background(), testCollection, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemRepo_CollectionsAreIsolated(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	item := testutil.NewTestItem("Mine")
	require.NoError(t, repo.Create(ctx, testCollection, &item))

	other := "artifacts/app/users/u2/mission_items"
	_, err := repo.GetByID(ctx, other, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := repo.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, repo.Delete(ctx, other, item.ID), ErrNotFound)
}

func TestItemRepo_List_InsertionOrderWithDependencies(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	a := testutil.NewTestItem("A")
	b := testutil.NewTestItem("B", testutil.WithDependencies(a.ID))
	c := testutil.NewTestItem("C", testutil.WithParent(a))
	for _, it := range []*domain.Item{&a, &b, &c} {
		require.NoError(t, repo.Create(ctx, testCollection, it))
	}

	items, err := repo.List(ctx, testCollection)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{items[0].Title, items[1].Title, items[2].Title})
	assert.Equal(t, []string{a.ID}, items[1].Dependencies)
	assert.NotNil(t, items[0].Dependencies)
	assert.Empty(t, items[0].Dependencies)
}

func TestItemRepo_Create_DeduplicatesDependencies(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	item := testutil.NewTestItem("Dup", testutil.WithDependencies("x", "x", "", "y"))
	require.NoError(t, repo.Create(ctx, testCollection, &item))

	got, err := repo.GetByID(ctx, testCollection, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Dependencies)
}

func TestItemRepo_Update_OnlyNamedFields(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	item := testutil.NewTestItem("Report", testutil.WithDescription("keep me"), testutil.WithDependencies("d1"))
	require.NoError(t, repo.Create(ctx, testCollection, &item))

	done := time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)
	err := repo.Update(ctx, testCollection, item.ID, ItemPatch{
		Status:         ptr(domain.ItemComplete),
		DeliverableURL: ptr("https://fake-storage.com/evidence.pdf"),
		CompletedAt:    &done,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, testCollection, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemComplete, got.Status)
	assert.Equal(t, "https://fake-storage.com/evidence.pdf", got.DeliverableURL)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, done.Equal(*got.CompletedAt))
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, "Report", got.Title)
	assert.Equal(t, []string{"d1"}, got.Dependencies)
}

func TestItemRepo_Update_ReplacesDependencies(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	item := testutil.NewTestItem("Deps", testutil.WithDependencies("a", "b"))
	require.NoError(t, repo.Create(ctx, testCollection, &item))

	require.NoError(t, repo.Update(ctx, testCollection, item.ID, ItemPatch{Dependencies: &[]string{"c"}}))
	got, err := repo.GetByID(ctx, testCollection, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Dependencies)

	require.NoError(t, repo.Update(ctx, testCollection, item.ID, ItemPatch{Dependencies: &[]string{}}))
	got, err = repo.GetByID(ctx, testCollection, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies)
}

func TestItemRepo_Update_NotFound(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, testCollection, "ghost", ItemPatch{Title: ptr("x")}), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, testCollection, "ghost", ItemPatch{Dependencies: &[]string{"a"}}), ErrNotFound)
}

func TestItemRepo_Delete_LeavesChildrenAndReferences(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	parent := testutil.NewTestItem("Parent")
	child := testutil.NewTestItem("Child", testutil.WithParent(parent))
	peer := testutil.NewTestItem("Peer", testutil.WithDependencies(parent.ID))
	for _, it := range []*domain.Item{&parent, &child, &peer} {
		require.NoError(t, repo.Create(ctx, testCollection, it))
	}

	require.NoError(t, repo.Delete(ctx, testCollection, parent.ID))

	items, err := repo.List(ctx, testCollection)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, parent.ID, items[0].ParentID, "child keeps its dangling parent reference")
	assert.Equal(t, []string{parent.ID}, items[1].Dependencies, "peer keeps its dangling dependency")

	assert.ErrorIs(t, repo.Delete(ctx, testCollection, parent.ID), ErrNotFound)
}

func TestItemRepo_DeleteMany_SkipsMissing(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	a := testutil.NewTestItem("A")
	b := testutil.NewTestItem("B")
	require.NoError(t, repo.Create(ctx, testCollection, &a))
	require.NoError(t, repo.Create(ctx, testCollection, &b))

	n, err := repo.DeleteMany(ctx, testCollection, []string{a.ID, "missing", b.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := repo.List(ctx, testCollection)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepo_InsideUnitOfWork(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Tx")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := NewSQLiteItemRepo(tx)
		if err := r.Create(ctx, testCollection, &item); err != nil {
			return err
		}
		_, err := r.List(ctx, testCollection)
		return err
	})
	require.NoError(t, err)

	_, err = NewSQLiteItemRepo(database).GetByID(ctx, testCollection, item.ID)
	assert.NoError(t, err)
}

// A file-backed database shares state across pooled connections, unlike
// :memory:, so this exercises real concurrent reads against WAL.
func TestItemRepo_ConcurrentReadDuringWrite(t *testing.T) {
	repo := NewSQLiteItemRepo(testutil.NewFileTestDB(t, filepath.Join(t.TempDir(), "concurrent.db")))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			item := testutil.NewTestItem("item")
			if err := repo.Create(ctx, testCollection, &item); err != nil {
				errs <- err
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if _, err := repo.List(ctx, testCollection); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access failed: %v", err)
	}

	items, err := repo.List(ctx, testCollection)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}
