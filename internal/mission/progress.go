package mission

import "github.com/alexanderramin/missionctl/internal/domain"

// Progress returns the completion percentage of parentID's direct children,
// in [0,100]. Grandchildren are not counted. A parent with no children has
// zero progress.
func Progress(parentID string, items []domain.Item) float64 {
	var total, done int
	for _, item := range items {
		if parentID == "" || item.ParentID != parentID {
			continue
		}
		total++
		if item.Status == domain.ItemComplete {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
