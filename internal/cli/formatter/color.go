package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// levelColors tints each hierarchy level, Mission first.
var levelColors = map[int]lipgloss.Color{
	domain.LevelMission: ColorPurple,
	domain.LevelTask:    ColorBlue,
	domain.LevelSubtask: ColorGreen,
	domain.LevelAction:  ColorYellow,
	domain.LevelStep:    ColorFg,
}

// LevelBadge returns the colored level name such as "Task".
func LevelBadge(level int) string {
	name := domain.LevelName(level)
	if name == "" {
		return StyleDim.Render(fmt.Sprintf("L%d", level))
	}
	c, ok := levelColors[level]
	if !ok {
		c = ColorDim
	}
	return lipgloss.NewStyle().Foreground(c).Render(name)
}

// StatusPill returns a colored indicator for an item's derived state.
func StatusPill(status domain.ItemStatus, locked bool) string {
	switch {
	case status == domain.ItemComplete:
		return StyleGreen.Render("✔ Completed")
	case locked:
		return StyleRed.Render("🔒 Locked")
	default:
		return StyleYellow.Render("● In Progress")
	}
}

// ModeBadge shows whether lock checks are enforced.
func ModeBadge(override bool) string {
	if override {
		return StyleRed.Render("▲ ADMIN MODE") + Dim(" · locks bypassed")
	}
	return StyleGreen.Render("● STRICT MODE")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
