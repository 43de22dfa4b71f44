package mission

import (
	"testing"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLocked_OverrideAlwaysUnlocks(t *testing.T) {
	dep := testutil.NewTestItem("Dep", testutil.WithID("dep"))
	items := []domain.Item{
		dep,
		testutil.NewTestItem("Blocked", testutil.WithDependencies("dep")),
		testutil.NewTestItem("Self", testutil.WithID("self"), testutil.WithDependencies("self")),
		testutil.NewTestItem("Free"),
	}
	for _, item := range items {
		assert.False(t, IsLocked(item, items, true), "item=%s", item.Title)
	}
}

func TestIsLocked_NoDependencies(t *testing.T) {
	item := testutil.NewTestItem("Solo")
	item.Dependencies = nil
	assert.False(t, IsLocked(item, []domain.Item{item}, false))
}

func TestIsLocked_AnyIncompleteDependencyLocks(t *testing.T) {
	cases := []struct {
		name   string
		bDone  bool
		cDone  bool
		locked bool
	}{
		{"both pending", false, false, true},
		{"only B complete", true, false, true},
		{"only C complete", false, true, true},
		{"both complete", true, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testutil.NewTestItem("B", testutil.WithID("B"))
			c := testutil.NewTestItem("C", testutil.WithID("C"))
			if tc.bDone {
				b.Status = domain.ItemComplete
			}
			if tc.cDone {
				c.Status = domain.ItemComplete
			}
			a := testutil.NewTestItem("A", testutil.WithDependencies("B", "C"))
			assert.Equal(t, tc.locked, IsLocked(a, []domain.Item{a, b, c}, false))
		})
	}
}

func TestIsLocked_UnresolvedDependencyIgnored(t *testing.T) {
	done := testutil.NewTestItem("Done", testutil.WithID("done"), testutil.Complete())
	a := testutil.NewTestItem("A", testutil.WithDependencies("ghost", "done"))
	assert.False(t, IsLocked(a, []domain.Item{a, done}, false))

	onlyGhost := testutil.NewTestItem("G", testutil.WithDependencies("ghost"))
	assert.False(t, IsLocked(onlyGhost, []domain.Item{onlyGhost}, false))
}

func TestIsLocked_IncompleteParentDoesNotLock(t *testing.T) {
	parent := testutil.NewTestItem("Parent")
	child := testutil.NewTestItem("Child", testutil.WithParent(parent))
	assert.False(t, IsLocked(child, []domain.Item{parent, child}, false))
}

func TestBlockers_SplitsPendingAndMissing(t *testing.T) {
	pending := testutil.NewTestItem("Pending", testutil.WithID("p"))
	done := testutil.NewTestItem("Done", testutil.WithID("d"), testutil.Complete())
	a := testutil.NewTestItem("A", testutil.WithDependencies("p", "ghost", "d"))

	r := Blockers(a, []domain.Item{a, pending, done})

	require.Len(t, r.Pending, 1)
	assert.Equal(t, "p", r.Pending[0].ID)
	assert.Equal(t, []string{"ghost"}, r.Missing)
	assert.True(t, r.Blocked())

	r = Blockers(testutil.NewTestItem("Free"), nil)
	assert.False(t, r.Blocked())
	assert.Empty(t, r.Missing)
}
