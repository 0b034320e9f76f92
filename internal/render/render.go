// Package render draws the current pane layout for humans: an ASCII box
// diagram of the tab (one character per cell) and a tabular pane listing.
// It is a read-only consumer of engine geometry; nothing here feeds back
// into the layout.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Box is one pane to draw.
type Box struct {
	X, Y, Cols, Rows int
	Label            string
	Titlebar         bool
	Active           bool
}

var (
	activeStyle   = lipgloss.NewStyle().Bold(true)
	titlebarStyle = lipgloss.NewStyle().Faint(true)
)

// ASCII renders the layout as a rows x cols character grid with one box
// per pane. Titlebar members render as a single shaded row; the active
// pane's label is bold.
func ASCII(rows, cols int, boxes []Box) string {
	if rows <= 0 || cols <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, b := range boxes {
		drawBox(grid, b)
	}

	var sb strings.Builder
	labels := labelPositions(boxes)
	for y, row := range grid {
		line := string(row)
		for _, l := range labels[y] {
			line = styleLabel(line, l)
		}
		sb.WriteString(line)
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// drawBox paints one pane's outline and label into the grid, clamping to
// the grid bounds so a degenerate rectangle never panics the renderer.
func drawBox(grid [][]rune, b Box) {
	rows, cols := len(grid), len(grid[0])
	x0, y0 := clamp(b.X, 0, cols-1), clamp(b.Y, 0, rows-1)
	x1, y1 := clamp(b.X+b.Cols-1, 0, cols-1), clamp(b.Y+b.Rows-1, 0, rows-1)
	if x1 < x0 || y1 < y0 {
		return
	}

	if b.Titlebar || y0 == y1 {
		for x := x0; x <= x1; x++ {
			grid[y0][x] = '░'
		}
		writeLabel(grid[y0], x0+1, x1, b.Label)
		return
	}

	for x := x0; x <= x1; x++ {
		grid[y0][x] = '─'
		grid[y1][x] = '─'
	}
	for y := y0; y <= y1; y++ {
		grid[y][x0] = '│'
		grid[y][x1] = '│'
	}
	grid[y0][x0], grid[y0][x1] = '┌', '┐'
	grid[y1][x0], grid[y1][x1] = '└', '┘'
	writeLabel(grid[y0], x0+2, x1-1, b.Label)
}

func writeLabel(row []rune, from, to int, label string) {
	for i, r := range label {
		x := from + i
		if x > to || x >= len(row) {
			break
		}
		row[x] = r
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// labelRef locates a styled label within a rendered line.
type labelRef struct {
	text  string
	style lipgloss.Style
}

// labelPositions groups the labels to restyle by grid row.
func labelPositions(boxes []Box) map[int][]labelRef {
	out := make(map[int][]labelRef)
	for _, b := range boxes {
		if b.Label == "" {
			continue
		}
		switch {
		case b.Active:
			out[b.Y] = append(out[b.Y], labelRef{text: b.Label, style: activeStyle})
		case b.Titlebar:
			out[b.Y] = append(out[b.Y], labelRef{text: b.Label, style: titlebarStyle})
		}
	}
	return out
}

func styleLabel(line string, l labelRef) string {
	return strings.Replace(line, l.text, l.style.Render(l.text), 1)
}

// PaneRow is one row of the tabular listing.
type PaneRow struct {
	ID       string
	X, Y     int
	Cols     int
	Rows     int
	Position int
	Stack    string
	Active   bool
}

// Table renders the pane listing with the shared table component, active
// pane first marked with an asterisk.
func Table(rows []PaneRow) string {
	columns := []table.Column{
		{Title: " ", Width: 1},
		{Title: "ID", Width: 36},
		{Title: "POS", Width: 4},
		{Title: "X", Width: 5},
		{Title: "Y", Width: 5},
		{Title: "COLS", Width: 5},
		{Title: "ROWS", Width: 5},
		{Title: "STACK", Width: 9},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		mark := " "
		if r.Active {
			mark = "*"
		}
		stackLabel := ""
		if r.Stack != "" {
			stackLabel = r.Stack
			if len(stackLabel) > 8 {
				stackLabel = stackLabel[:8]
			}
		}
		tableRows = append(tableRows, table.Row{
			mark,
			r.ID,
			fmt.Sprintf("%d", r.Position),
			fmt.Sprintf("%d", r.X),
			fmt.Sprintf("%d", r.Y),
			fmt.Sprintf("%d", r.Cols),
			fmt.Sprintf("%d", r.Rows),
			stackLabel,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(len(tableRows)+1),
	)
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t.View()
}
