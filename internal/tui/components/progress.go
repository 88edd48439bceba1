// Package components holds small reusable views for the terminal editor.
package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Completion shows how many required fields of a deck are filled in.
type Completion struct {
	bar progress.Model
}

// NewCompletion returns a completion bar of the given width in cells.
func NewCompletion(width int) Completion {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = max(width, 10)
	return Completion{bar: bar}
}

// View renders filled out of total. A deck with no required fields counts
// as complete.
func (c Completion) View(filled, total int) string {
	ratio := 1.0
	if total > 0 {
		ratio = math.Max(0, math.Min(1.0, float64(filled)/float64(total)))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d required", filled, total))
	return lipgloss.JoinHorizontal(lipgloss.Left, c.bar.ViewAs(ratio), " ", label)
}
