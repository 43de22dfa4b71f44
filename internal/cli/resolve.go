package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/store"
)

// resolveItemID resolves an item identifier which can be:
//   - A full id (passed through when present in the snapshot)
//   - A unique id prefix, such as the 8-character form shown in listings
func resolveItemID(items []domain.Item, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("item id is required")
	}

	var matches []string
	for _, item := range items {
		if item.ID == input {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, input) {
			matches = append(matches, item.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("item %s: %w", input, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d items match)", input, len(matches))
	}
}
