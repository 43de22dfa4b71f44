package mission

import (
	"sort"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
)

const dateLayout = "2006-01-02"

// MissionCard is one root shown on the dashboard.
type MissionCard struct {
	Mission  domain.Item
	Progress float64
}

// Dashboard is the summary of a snapshot.
type Dashboard struct {
	ActiveMissions      int
	DeliverablesPending int
	Missions            []MissionCard
}

// Summarize computes the dashboard for a snapshot.
func Summarize(items []domain.Item, t Tree) Dashboard {
	var d Dashboard
	for _, r := range t.RootItems {
		if r.Status != domain.ItemComplete {
			d.ActiveMissions++
		}
		d.Missions = append(d.Missions, MissionCard{
			Mission:  r,
			Progress: Progress(r.ID, items),
		})
	}
	for _, item := range items {
		if item.Level > domain.LevelMission && item.Status != domain.ItemComplete {
			d.DeliverablesPending++
		}
	}
	return d
}

// TimelineRow is one bar of the timeline.
type TimelineRow struct {
	Item domain.Item
	// Offset is a decorative horizontal offset in bar units derived from
	// the start day of month.
	Offset int
}

// Timeline returns the items that have both a start and a due date, sorted
// by start date. Dates that don't parse as YYYY-MM-DD sort after the rest,
// keeping snapshot order among themselves.
func Timeline(items []domain.Item) []TimelineRow {
	type keyed struct {
		row    TimelineRow
		start  time.Time
		parsed bool
	}
	var rows []keyed
	for _, item := range items {
		if !item.HasSchedule() {
			continue
		}
		start, err := time.Parse(dateLayout, item.StartDate)
		k := keyed{row: TimelineRow{Item: item}, start: start, parsed: err == nil}
		if k.parsed {
			k.row.Offset = start.Day() % 10
		}
		rows = append(rows, k)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].parsed != rows[j].parsed {
			return rows[i].parsed
		}
		return rows[i].start.Before(rows[j].start)
	})

	out := make([]TimelineRow, len(rows))
	for i, k := range rows {
		out[i] = k.row
	}
	return out
}

// Agenda returns the items with a time slot, ordered by start time.
func Agenda(items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, item := range items {
		if item.HasAgendaSlot() {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// StatusLabel is the detail-panel wording for an item's state.
func StatusLabel(item domain.Item, items []domain.Item, override bool) string {
	switch {
	case item.Status == domain.ItemComplete:
		return "Completed"
	case IsLocked(item, items, override):
		return "Locked by Dependencies"
	default:
		return "In Progress"
	}
}
