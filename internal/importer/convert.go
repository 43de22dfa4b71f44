package importer

import (
	"sort"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/google/uuid"
)

// Convert flattens a validated schema into items, parents before children.
// Each item's ID is its reference in the file, or a generated placeholder
// when the file gave none; the store replaces both with fresh ids.
func Convert(schema *ImportSchema) []domain.Item {
	var out []domain.Item

	var walk func(items []ItemImport, level int, parentID string)
	walk = func(items []ItemImport, level int, parentID string) {
		for _, it := range items {
			id := it.ID
			if id == "" {
				id = uuid.NewString()
			}
			status := domain.ItemStatus(it.Status)
			if status == "" {
				status = domain.ItemPending
			}
			item := domain.Item{
				ID:             id,
				Title:          it.Title,
				Description:    it.Description,
				Level:          level,
				ParentID:       parentID,
				Status:         status,
				DeliverableURL: it.DeliverableURL,
				StartDate:      it.StartDate,
				DueDate:        it.DueDate,
				StartTime:      it.StartTime,
				EndTime:        it.EndTime,
				Dependencies:   append([]string{}, it.Dependencies...),
			}
			if status == domain.ItemComplete && it.CompletedAt != nil {
				t := *it.CompletedAt
				item.CompletedAt = &t
			}
			out = append(out, item)
			walk(it.Children, level+1, id)
		}
	}
	walk(schema.Missions, domain.LevelMission, "")
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
