package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	ID          string
	Title       string
	Level       int
	Depth       int // 0 for roots
	IsLast      bool
	Status      domain.ItemStatus
	Locked      bool
	HasChildren bool
	Expanded    bool
	Selected    bool
	Detail      string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Completed items get a green ✔,
// locked items a red lock, and collapsed parents a ▸ marker. Detail badges
// are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		var prefix string
		if item.Depth > 0 {
			prefix = strings.Repeat(treePipe, item.Depth-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		fold := "  "
		if item.HasChildren {
			fold = "▾ "
			if !item.Expanded {
				fold = "▸ "
			}
		}

		title := item.Title
		statusPrefix := ""
		switch {
		case item.Status == domain.ItemComplete:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case item.Locked:
			statusPrefix = StyleRed.Render("🔒 ")
			title = StyleDim.Render(title)
		}
		if item.Selected {
			title = StyleYellowBold.Render("› " + item.Title)
		}

		content := prefix + Dim(fold) + statusPrefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
