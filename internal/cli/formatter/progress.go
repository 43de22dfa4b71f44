package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  40% from a
// percentage in [0,100]. The bar is colored by completion: green above
// 66, yellow from 33, red below.
func RenderProgress(pct float64, width int) string {
	frac := clampFraction(pct / 100)
	if width < 2 {
		width = 2
	}

	bar := blocks(frac, width)

	style := StyleGreen
	if frac < 0.33 {
		style = StyleRed
	} else if frac < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), frac*100)
}

// RenderCompactBar renders just the blocks of a progress bar, without
// brackets or percentage. Dimmed bars are used for completed rows.
func RenderCompactBar(pct float64, width int, dim bool) string {
	frac := clampFraction(pct / 100)
	if width < 2 {
		width = 2
	}
	bar := blocks(frac, width)
	if dim {
		return StyleDim.Render(bar)
	}
	return StyleBlue.Render(bar)
}

func blocks(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
