// Package components renders reusable CLI report fragments.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/ui/theme"
)

const (
	barFilled = "█"
	barEmpty  = "░"
)

// ScoreBar renders a mastery score as a fixed-width bar followed by the
// band symbol and the score.
func ScoreBar(score float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width)*score + 0.5)
	filled = max(0, min(width, filled))

	style := theme.BarStrong
	switch {
	case score < mastery.DrillingMin:
		style = theme.BarWeak
	case score < mastery.KnownMin:
		style = theme.BarMid
	}

	return style.Render(strings.Repeat(barFilled, filled)) +
		theme.BarEmpty.Render(strings.Repeat(barEmpty, width-filled)) +
		theme.Dim.Render(fmt.Sprintf(" %s %.2f", mastery.BandOf(score).Symbol(), score))
}

// Pad right-pads s to width terminal cells, truncating longer text.
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > width {
			r = r[:len(r)-1]
		}
		s = string(r)
		w = lipgloss.Width(s)
	}
	return s + strings.Repeat(" ", width-w)
}
