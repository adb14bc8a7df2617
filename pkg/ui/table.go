package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PresenceTable shows which files carry which columns
type PresenceTable struct {
	Files   []string
	Columns []string
	// Has reports whether file i carries column j
	Has func(file, column int) bool
}

// Render draws the table with one row per column and one mark column per file
func (t *PresenceTable) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	nameWidth := lipgloss.Width("Column")
	for _, c := range t.Columns {
		nameWidth = max(nameWidth, lipgloss.Width(c))
	}
	fileWidths := make([]int, len(t.Files))
	for i, f := range t.Files {
		fileWidths[i] = max(lipgloss.Width(f), 1)
	}

	var b strings.Builder

	header := []string{pad("Column", nameWidth)}
	rule := []string{strings.Repeat("─", nameWidth)}
	for i, f := range t.Files {
		header = append(header, pad(f, fileWidths[i]))
		rule = append(rule, strings.Repeat("─", fileWidths[i]))
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(header, "  ")))
	b.WriteString("\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(rule, "  ")))
	b.WriteString("\n")

	for j, c := range t.Columns {
		cells := []string{pad(c, nameWidth)}
		for i := range t.Files {
			mark := StyleAbsent.Render(pad("·", fileWidths[i]))
			if t.Has != nil && t.Has(i, j) {
				mark = StylePresent.Render(pad(IconSuccess, fileWidths[i]))
			}
			cells = append(cells, mark)
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}

	return b.String()
}

// pad left-aligns s to width display cells
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return StyleAccent.Render(key) + ": " + value
}
