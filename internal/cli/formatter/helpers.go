package formatter

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueDate renders a free-form due date. YYYY-MM-DD dates get a relative
// hint colored by urgency; anything else is shown as typed. Empty dates
// read "No Date".
func DueDate(s string, now time.Time) string {
	if s == "" {
		return Dim("No Date")
	}
	due, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return s
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rel := RelativeDateFrom(due, today)
	days := int(math.Round(due.Sub(today).Hours() / 24))

	style := StyleFg
	switch {
	case days <= 2:
		style = StyleRed
	case days <= 7:
		style = StyleYellow
	}
	return s + " " + style.Render("("+rel+")")
}

// OrDash returns s, or a dim "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Dim("-")
	}
	return s
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	return StyleDim.Render(ShortID(id))
}

// ShortID returns the first 8 characters of an ID.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Truncate shortens s to at most width visible runes, ending in "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
