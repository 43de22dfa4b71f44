package mission

import "github.com/alexanderramin/missionctl/internal/domain"

// WouldCycle reports whether adding the edge itemID -> dependsOnID would
// close a loop in the dependency graph, i.e. whether dependsOnID already
// depends on itemID directly or transitively. A self edge is a cycle.
func WouldCycle(items []domain.Item, itemID, dependsOnID string) bool {
	if itemID == dependsOnID {
		return true
	}

	graph := make(map[string][]string, len(items))
	for _, item := range items {
		graph[item.ID] = item.Dependencies
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(items))

	var reaches func(from string) bool
	reaches = func(from string) bool {
		if from == itemID {
			return true
		}
		color[from] = gray
		for _, next := range graph[from] {
			if color[next] != white {
				continue
			}
			if reaches(next) {
				return true
			}
		}
		color[from] = black
		return false
	}
	return reaches(dependsOnID)
}

// Dependents returns the items that list id among their dependencies.
func Dependents(id string, items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, item := range items {
		if item.DependsOn(id) {
			out = append(out, item)
		}
	}
	return out
}
