package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tw93/diskmap/internal/treemap"
)

type styleID int

// cell is one terminal cell. A zero rune marks the trailing half of a wide
// character and is skipped on output.
type cell struct {
	r rune
	s styleID
}

// canvas is a fixed-size cell grid. Styles are interned so adjacent cells
// sharing one are rendered as a single run.
type canvas struct {
	width, height int
	cells         [][]cell
	styles        []lipgloss.Style
}

func newCanvas(width, height int) *canvas {
	c := &canvas{
		width:  width,
		height: height,
		cells:  make([][]cell, height),
		styles: []lipgloss.Style{lipgloss.NewStyle()},
	}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) addStyle(s lipgloss.Style) styleID {
	c.styles = append(c.styles, s)
	return styleID(len(c.styles) - 1)
}

func (c *canvas) set(x, y int, r rune, s styleID) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, s: s}
}

func (c *canvas) fill(rect treemap.Rect, r rune, s styleID) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			c.set(x, y, r, s)
		}
	}
}

func (c *canvas) box(rect treemap.Rect, s styleID) {
	right := rect.X + rect.Width - 1
	bottom := rect.Y + rect.Height - 1
	for x := rect.X; x <= right; x++ {
		c.set(x, rect.Y, '─', s)
		c.set(x, bottom, '─', s)
	}
	for y := rect.Y; y <= bottom; y++ {
		c.set(rect.X, y, '│', s)
		c.set(right, y, '│', s)
	}
	c.set(rect.X, rect.Y, '┌', s)
	c.set(right, rect.Y, '┐', s)
	c.set(rect.X, bottom, '└', s)
	c.set(right, bottom, '┘', s)
}

// text writes str from (x, y), never past limit cells, and returns the
// number of cells used.
func (c *canvas) text(x, y int, str string, s styleID, limit int) int {
	written := 0
	for _, r := range str {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if written+w > limit {
			break
		}
		c.set(x+written, y, r, s)
		for i := 1; i < w; i++ {
			c.set(x+written+i, y, 0, s)
		}
		written += w
	}
	return written
}

func (c *canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		current := styleID(-1)
		for _, cl := range row {
			if cl.s != current {
				if run.Len() > 0 {
					b.WriteString(c.styles[current].Render(run.String()))
					run.Reset()
				}
				current = cl.s
			}
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		if run.Len() > 0 {
			b.WriteString(c.styles[current].Render(run.String()))
			run.Reset()
		}
	}
	return b.String()
}
