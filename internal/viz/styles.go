package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/mat"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Good = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))

	Bad = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))
)

// Field is one labelled line of a report.
type Field struct {
	Label string
	Value string
}

func F(label, format string, args ...any) Field {
	return Field{Label: label, Value: fmt.Sprintf(format, args...)}
}

// Status renders ok/fail text in the matching colour.
func Status(ok bool, text string) string {
	if ok {
		return Good.Render(text)
	}
	return Bad.Render(text)
}

// Report renders a titled panel of aligned fields followed by extra blocks.
func Report(title string, fields []Field, blocks ...string) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}

	var b strings.Builder
	b.WriteString(Title.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-*s", width, f.Label)))
		b.WriteString("  ")
		b.WriteString(MetricValue.Render(f.Value))
	}
	for _, blk := range blocks {
		b.WriteString("\n\n")
		b.WriteString(blk)
	}
	return Panel.Render(b.String())
}

// Matrix renders m under its name, or "name = []" when m is empty.
func Matrix(name string, m mat.Matrix) string {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return MetricLabel.Render(name) + " = []"
	}
	body := fmt.Sprintf("%.4g", mat.Formatted(m, mat.Prefix(strings.Repeat(" ", len(name)+3)), mat.Squeeze()))
	return MetricLabel.Render(name) + " = " + body
}

// Sparkline renders one rune per value; feasible entries are a full block.
func Sparkline(feasible []bool) string {
	var b strings.Builder
	for _, ok := range feasible {
		if ok {
			b.WriteString(Good.Render("█"))
		} else {
			b.WriteString(Bad.Render("▁"))
		}
	}
	return b.String()
}
