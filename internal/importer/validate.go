package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Missions) == 0 {
		return []error{fmt.Errorf("missions: at least one mission is required")}
	}

	refs := make(map[string]bool)
	deps := make(map[string][]string)
	var depPaths []depRef

	var walk func(items []ItemImport, prefix string, level int)
	walk = func(items []ItemImport, prefix string, level int) {
		for i := range items {
			it := &items[i]
			path := fmt.Sprintf("%s[%d]", prefix, i)
			errs = append(errs, validateItem(it, path, level)...)

			if it.ID != "" {
				if refs[it.ID] {
					errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", path, it.ID))
				}
				refs[it.ID] = true
			}
			for _, d := range it.Dependencies {
				depPaths = append(depPaths, depRef{path: path, from: it.ID, to: d})
				if it.ID != "" {
					deps[it.ID] = append(deps[it.ID], d)
				}
			}

			if len(it.Children) > 0 {
				if level >= domain.MaxLevel {
					errs = append(errs, fmt.Errorf("%s.children: a %s cannot have children",
						path, domain.LevelName(level)))
					continue
				}
				walk(it.Children, path+".children", level+1)
			}
		}
	}
	walk(schema.Missions, "missions", domain.LevelMission)

	for _, d := range depPaths {
		switch {
		case d.to == "":
			errs = append(errs, fmt.Errorf("%s.dependencies: empty id", d.path))
		case d.from != "" && d.to == d.from:
			errs = append(errs, fmt.Errorf("%s.dependencies: item depends on itself", d.path))
		case !refs[d.to]:
			errs = append(errs, fmt.Errorf("%s.dependencies: id %q not found in file", d.path, d.to))
		}
	}
	if cycle := findCycle(deps); cycle != "" {
		errs = append(errs, fmt.Errorf("dependencies: cycle through %q", cycle))
	}

	return errs
}

type depRef struct {
	path     string
	from, to string
}

func validateItem(it *ItemImport, path string, level int) []error {
	var errs []error

	if it.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", path))
	}
	if it.Level != "" && it.Level != domain.LevelName(level) {
		errs = append(errs, fmt.Errorf("%s.level: %q does not match its nesting (%s)",
			path, it.Level, domain.LevelName(level)))
	}
	if it.Status != "" && !domain.ValidItemStatuses[it.Status] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", path, it.Status))
	}

	errs = append(errs, validateOptional(path+".start_date", it.StartDate, "2006-01-02", "YYYY-MM-DD")...)
	errs = append(errs, validateOptional(path+".due_date", it.DueDate, "2006-01-02", "YYYY-MM-DD")...)
	errs = append(errs, validateOptional(path+".start_time", it.StartTime, "15:04", "HH:MM")...)
	errs = append(errs, validateOptional(path+".end_time", it.EndTime, "15:04", "HH:MM")...)

	if (it.StartTime != "" || it.EndTime != "") && level-1 < domain.AgendaMinParentLevel {
		errs = append(errs, fmt.Errorf("%s: a %s cannot carry an agenda slot", path, domain.LevelName(level)))
	}
	return errs
}

// validateOptional accepts an empty value or one matching layout.
func validateOptional(field, value, layout, hint string) []error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(layout, value); err != nil {
		return []error{fmt.Errorf("%s: invalid format %q (expected %s)", field, value, hint)}
	}
	return nil
}

// findCycle returns an id on a dependency cycle, or "" when the graph is
// acyclic. Edges to unknown ids are ignored.
func findCycle(deps map[string][]string) string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(deps))

	var visit func(id string) string
	visit = func(id string) string {
		switch state[id] {
		case visiting:
			return id
		case done:
			return ""
		}
		state[id] = visiting
		for _, next := range deps[id] {
			if c := visit(next); c != "" {
				return c
			}
		}
		state[id] = done
		return ""
	}

	// Deterministic order keeps error messages stable.
	for _, id := range sortedKeys(deps) {
		if c := visit(id); c != "" {
			return c
		}
	}
	return ""
}
