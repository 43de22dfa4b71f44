package mission

import "github.com/alexanderramin/missionctl/internal/domain"

// IsLocked reports whether item is not actionable.
//
// With override set nothing is ever locked. Otherwise an item is locked when
// any of its dependencies that exists in the snapshot is not complete.
// Dependency ids that don't resolve are ignored. The hierarchy plays no part:
// an incomplete parent never locks its children.
func IsLocked(item domain.Item, items []domain.Item, override bool) bool {
	if override {
		return false
	}
	if len(item.Dependencies) == 0 {
		return false
	}

	byID := indexByID(items)
	for _, depID := range item.Dependencies {
		dep, ok := byID[depID]
		if !ok {
			continue
		}
		if dep.Status != domain.ItemComplete {
			return true
		}
	}
	return false
}

// BlockerReport explains an item's lock state.
type BlockerReport struct {
	// Pending are resolved dependencies that are not yet complete.
	Pending []domain.Item
	// Missing are dependency ids with no matching item in the snapshot.
	Missing []string
}

// Blocked reports whether anything in the report locks the item.
func (r BlockerReport) Blocked() bool {
	return len(r.Pending) > 0
}

// Blockers splits item's dependencies into incomplete and unresolved ones,
// in dependency order.
func Blockers(item domain.Item, items []domain.Item) BlockerReport {
	var r BlockerReport
	byID := indexByID(items)
	for _, depID := range item.Dependencies {
		dep, ok := byID[depID]
		if !ok {
			r.Missing = append(r.Missing, depID)
			continue
		}
		if dep.Status != domain.ItemComplete {
			r.Pending = append(r.Pending, dep)
		}
	}
	return r
}

func indexByID(items []domain.Item) map[string]domain.Item {
	byID := make(map[string]domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID
}
