package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column is a table column. A zero Width takes the remaining space.
type Column struct {
	Title string
	Width int
}

// Cell is one table cell; Style is optional
type Cell struct {
	Text  string
	Style *lipgloss.Style
}

// Text makes an unstyled cell
func Text(s string) Cell {
	return Cell{Text: s}
}

// Styled makes a cell rendered with style
func Styled(s string, style lipgloss.Style) Cell {
	return Cell{Text: s, Style: &style}
}

// Table renders rows under a header with a cursor and optional selection marks
type Table struct {
	Columns []Column
	Rows    [][]Cell
	Cursor  int
	// Marked reports whether row i is selected; nil hides the mark column
	Marked func(i int) bool
	Width  int
	Height int
	Empty  string
}

const markWidth = 4

// Render draws the table, scrolled so that the cursor row is visible
func (t Table) Render(s *Styles) string {
	widths := t.columnWidths()

	var b strings.Builder
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = pad(col.Title, widths[i])
	}
	if t.Marked != nil {
		b.WriteString(strings.Repeat(" ", markWidth))
	}
	b.WriteString(s.Column.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		if t.Empty != "" {
			b.WriteString(s.Dim.Render(t.Empty))
		}
		return b.String()
	}

	height := t.Height
	if height <= 0 || height > len(t.Rows) {
		height = len(t.Rows)
	}
	offset := 0
	if t.Cursor >= height {
		offset = t.Cursor - height + 1
	}

	for i := offset; i < offset+height && i < len(t.Rows); i++ {
		var line strings.Builder
		if t.Marked != nil {
			if t.Marked(i) {
				line.WriteString("[x] ")
			} else {
				line.WriteString("[ ] ")
			}
		}
		cells := make([]string, len(t.Columns))
		for c := range t.Columns {
			var cell Cell
			if c < len(t.Rows[i]) {
				cell = t.Rows[i][c]
			}
			text := pad(cell.Text, widths[c])
			if cell.Style != nil && i != t.Cursor {
				text = cell.Style.Render(text)
			}
			cells[c] = text
		}
		line.WriteString(strings.Join(cells, " "))
		if i == t.Cursor {
			b.WriteString(s.Cursor.Render(line.String()))
		} else {
			b.WriteString(line.String())
		}
		if i < offset+height-1 && i < len(t.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (t Table) columnWidths() []int {
	widths := make([]int, len(t.Columns))
	used := 0
	flex := -1
	for i, col := range t.Columns {
		if col.Width == 0 && flex < 0 {
			flex = i
			continue
		}
		w := col.Width
		if w == 0 {
			w = lipgloss.Width(col.Title)
		}
		widths[i] = w
		used += w + 1
	}
	if flex >= 0 {
		avail := t.Width - used
		if t.Marked != nil {
			avail -= markWidth
		}
		if avail < 10 {
			avail = 10
		}
		widths[flex] = avail
	}
	return widths
}

// pad truncates or right-pads s to exactly w cells
func pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > w {
		if w == 1 {
			return "…"
		}
		return string(runes[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(runes))
}
