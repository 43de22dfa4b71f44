package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
)

const (
	progressBarWidth = 20
	timelineSpan     = 10
	timelineBarWidth = 12
)

// FormatDashboard renders the summary counters and one card per mission.
func FormatDashboard(d mission.Dashboard, now time.Time) string {
	return FormatDashboardSelected(d, now, -1)
}

// FormatDashboardSelected is FormatDashboard with a cursor on the
// selected-th mission card. A negative index draws no cursor.
func FormatDashboardSelected(d mission.Dashboard, now time.Time, selected int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s    %s %s\n\n",
		Dim("Active Missions"), Bold(fmt.Sprint(d.ActiveMissions)),
		Dim("Deliverables Pending"), Bold(fmt.Sprint(d.DeliverablesPending))))

	b.WriteString(Header("Your Missions"))
	b.WriteString("\n")
	if len(d.Missions) == 0 {
		b.WriteString(Dim("No missions yet. Create one with 'missionctl add --title ...'.") + "\n")
		return b.String()
	}

	for i, card := range d.Missions {
		m := card.Mission
		title := Bold(m.Title)
		if m.IsComplete() {
			title = StyleGreen.Render("✔ ") + Dim(m.Title)
		}
		if i == selected {
			title = StyleHeader.Render("› ") + title
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", title, TruncID(m.ID)))
		if m.Description != "" {
			b.WriteString("  " + Dim(Truncate(m.Description, 60)) + "\n")
		}
		b.WriteString(fmt.Sprintf("  %s  %s %s\n\n",
			RenderProgress(card.Progress, progressBarWidth),
			Dim("due"), DueDate(m.DueDate, now)))
	}
	return b.String()
}

// TreeItems converts visible hierarchy rows into renderable tree items.
func TreeItems(rows []mission.Row, items []domain.Item, override bool, selectedID string) []TreeItem {
	out := make([]TreeItem, 0, len(rows))
	for _, r := range rows {
		item := r.Node.Item
		detail := domain.LevelName(item.Level)
		if r.HasChildren {
			detail += fmt.Sprintf(" · %.0f%%", mission.Progress(item.ID, items))
		}
		out = append(out, TreeItem{
			ID:          item.ID,
			Title:       item.Title,
			Level:       item.Level,
			Depth:       r.Depth,
			IsLast:      r.IsLast,
			Status:      item.Status,
			Locked:      mission.IsLocked(item, items, override),
			HasChildren: r.HasChildren,
			Expanded:    r.Expanded,
			Selected:    item.ID == selectedID,
			Detail:      detail,
		})
	}
	return out
}

// FormatTree renders the hierarchy. A nil expanded set shows every level.
func FormatTree(items []domain.Item, expanded map[string]bool, override bool) string {
	t := mission.BuildTree(items)
	rows := mission.Flatten(t, expanded)
	if len(rows) == 0 {
		return Dim("No missions yet.") + "\n"
	}
	return RenderTree(TreeItems(rows, items, override, ""))
}

// FormatTimeline renders one decorative bar per scheduled item.
func FormatTimeline(rows []mission.TimelineRow) string {
	if len(rows) == 0 {
		return Dim("No scheduled items. Set both a start and a due date to see them here.") + "\n"
	}

	headers := []string{"ITEM", "START", "DUE", "BAR"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		bar := strings.Repeat(" ", r.Offset) +
			StyleBlue.Render(strings.Repeat(filledBlock, timelineBarWidth)) +
			strings.Repeat(" ", timelineSpan-r.Offset)
		title := r.Item.Title
		if r.Item.IsComplete() {
			title = Dim(title)
		}
		table = append(table, []string{
			title + " " + Dim(domain.LevelName(r.Item.Level)),
			r.Item.StartDate,
			r.Item.DueDate,
			bar,
		})
	}
	return RenderTable(headers, table)
}

// FormatAgenda renders the time-slotted items in start-time order.
func FormatAgenda(items []domain.Item, all []domain.Item, override bool) string {
	if len(items) == 0 {
		return Dim("Nothing on the agenda. Actions and steps with a time slot show up here.") + "\n"
	}
	headers := []string{"TIME", "ITEM", "LEVEL", "STATUS"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.StartTime + " - " + item.EndTime,
			item.Title,
			LevelBadge(item.Level),
			StatusPill(item.Status, mission.IsLocked(item, all, override)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatOrphans lists items that no mission reaches.
func FormatOrphans(orphans []domain.Item) string {
	if len(orphans) == 0 {
		return Dim("No orphaned items.") + "\n"
	}
	headers := []string{"ID", "ITEM", "LEVEL", "MISSING PARENT"}
	rows := make([][]string, 0, len(orphans))
	for _, o := range orphans {
		rows = append(rows, []string{
			TruncID(o.ID),
			o.Title,
			LevelBadge(o.Level),
			OrDash(ShortID(o.ParentID)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDetail renders the detail panel of one item.
func FormatDetail(item domain.Item, items []domain.Item, override bool, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n", Bold(item.Title), LevelBadge(item.Level), TruncID(item.ID)))

	label := mission.StatusLabel(item, items, override)
	status := StyleYellow.Render(label)
	switch label {
	case "Completed":
		status = StyleGreen.Render(label)
	case "Locked by Dependencies":
		status = StyleRed.Render(label)
	}
	field := func(name, value string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim(fmt.Sprintf("%-11s", name)), value))
	}

	field("STATUS", status)
	if item.DeliverableURL != "" {
		field("DELIVERABLE", StyleBlue.Render(item.DeliverableURL))
	}
	if item.CompletedAt != nil {
		field("COMPLETED", item.CompletedAt.Local().Format("Jan 2, 2006 15:04"))
	}
	field("START", OrDash(item.StartDate))
	field("DUE", DueDate(item.DueDate, now))
	slot := ""
	if item.StartTime != "" || item.EndTime != "" {
		slot = item.StartTime + " - " + item.EndTime
	}
	field("AGENDA", OrDash(slot))
	if item.ParentID != "" {
		parent := ShortID(item.ParentID)
		if p, ok := mission.Find(items, item.ParentID); ok {
			parent = p.Title
		} else {
			parent += " " + StyleRed.Render("(missing)")
		}
		field("PARENT", parent)
	}
	if children := mission.Children(item.ID, items); len(children) > 0 {
		field("CHILDREN", fmt.Sprintf("%d  %s", len(children), RenderProgress(mission.Progress(item.ID, items), progressBarWidth)))
	}

	b.WriteString("\n")
	desc := item.Description
	if strings.TrimSpace(desc) == "" {
		desc = Dim("No description provided.")
	}
	b.WriteString(desc + "\n")

	if len(item.Dependencies) > 0 {
		b.WriteString("\n" + Header("Dependencies") + "\n")
		report := mission.Blockers(item, items)
		pending := make(map[string]bool, len(report.Pending))
		for _, p := range report.Pending {
			pending[p.ID] = true
		}
		missing := make(map[string]bool, len(report.Missing))
		for _, id := range report.Missing {
			missing[id] = true
		}
		for _, depID := range item.Dependencies {
			switch {
			case missing[depID]:
				b.WriteString(fmt.Sprintf("  %s %s %s\n", StyleDim.Render("?"), ShortID(depID), Dim("(missing, ignored)")))
			case pending[depID]:
				dep, _ := mission.Find(items, depID)
				b.WriteString(fmt.Sprintf("  %s %s\n", StyleRed.Render("✖"), dep.Title))
			default:
				dep, _ := mission.Find(items, depID)
				b.WriteString(fmt.Sprintf("  %s %s\n", StyleGreen.Render("✔"), Dim(dep.Title)))
			}
		}
	}

	return b.String()
}
