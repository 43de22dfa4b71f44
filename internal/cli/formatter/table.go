package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// RenderTable lays out rows under styled headers and a rule. Cells may be
// styled; widths are measured on visible text. Missing cells render empty
// and the last column is never padded.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := range widths {
			if i < len(cells) {
				widths[i] = max(widths[i], lipgloss.Width(cells[i]))
			}
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i, w := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - lipgloss.Width(cell)
			if style != nil {
				cell = style(cell)
			}
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", pad) + tableGap)
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	writeRow(rule, Dim)
	for _, r := range rows {
		writeRow(r, nil)
	}
	return b.String()
}
