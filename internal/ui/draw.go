package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tw93/diskmap/internal/app"
	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/treemap"
)

const (
	smallFilesLegend = "(x = Small files)"
	tooSmallMessage  = "Terminal window is too small ;("

	controlsLong       = "<arrows> - move around, <ENTER> - enter folder, <ESC> - parent folder, <BACKSPACE> - delete, <+/-/0> - zoom in/out/reset, <q> - quit"
	controlsLongNoDel  = "<arrows> - move around, <ENTER> - enter folder, <ESC> - parent folder, <+/-/0> - zoom in/out/reset, <q> - quit"
	controlsShort      = "←↓↑→/<ENTER>/<ESC>: navigate, <BACKSPACE>: del"
	controlsShortNoDel = "←↓↑→/<ENTER>/<ESC>: navigate"
	controlsTooSmall   = "(...)"
	dismissHint        = "<press any key to dismiss>"
	confirmHint        = "(y = yes, n = no)"
)

// Draw renders a full frame: title line, board and the two bottom lines,
// with any modal spliced on top.
func Draw(f app.Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	if _, ok := f.Mode.(app.ScreenTooSmall); ok {
		msg := firstFitting(f.Width, tooSmallMessage, "Too small", "")
		return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center, tooSmallStyle.Render(msg))
	}

	c := newCanvas(f.Width, f.Height)
	drawTitle(c, f)
	for i, t := range f.Tiles {
		drawTile(c, t, i == f.Selected)
	}
	drawBottom(c, f)

	view := c.String()
	if lines, ok := modal(f); ok {
		x := (f.Width - ansi.StringWidth(lines[0])) / 2
		y := (f.Height - len(lines)) / 2
		view = spliceOverlay(view, lines, x, y)
	}
	return view
}

// loading reports whether the frame belongs to an unfinished scan.
func loading(f app.Frame) bool {
	return !f.Loaded
}

type segment struct {
	text  string
	style lipgloss.Style
}

func width(segments []segment) int {
	n := 0
	for _, s := range segments {
		n += ansi.StringWidth(s.text)
	}
	return n
}

func drawTitle(c *canvas, f app.Frame) {
	limit := f.Width - 2
	if limit <= 0 {
		return
	}

	var prefix []segment
	if loading(f) {
		spinner := spinnerFrames[f.Effects.LoadingIndicator%len(spinnerFrames)]
		prefix = append(prefix, segment{spinner + " Scanning | ", loadingStyle})
	}

	base := displayPath(f.BasePath)
	current := filepath.Join(append([]string{base}, f.CurrentPath...)...)
	pStyle := pathStyle
	if f.Effects.CurrentPathIsRed {
		pStyle = pathErrorStyle
	}
	freedStyle := titleStyle
	if f.Effects.FlashSpaceFreed {
		freedStyle = freedFlashStyle
	}

	var suffix []segment
	if f.Magnification > 0 {
		suffix = append(suffix, segment{fmt.Sprintf(" (x%d)", 1<<f.Magnification), titleStyle})
	}
	if f.FailedToRead > 0 {
		suffix = append(suffix, segment{fmt.Sprintf(" (failed to read %s files)", formatNumber(f.FailedToRead)), failedStyle})
	}

	totals := []segment{
		{fmt.Sprintf("Total: %s (%s files), ", humanizeBytes(f.TotalSize), formatNumber(f.TotalDescendants)), titleStyle},
		{"freed: " + humanizeBytes(f.SpaceFreed), freedStyle},
		{" | ", titleStyle},
	}
	pathInfo := []segment{
		{current, pStyle},
		{fmt.Sprintf(" (%s, %s files)", humanizeBytes(f.CurrentSize), formatNumber(f.CurrentDescendants)), titleStyle},
	}

	variants := [][]segment{
		concat(prefix, totals, pathInfo, suffix),
		concat(prefix, pathInfo, suffix),
		concat(prefix, pathInfo),
	}
	chosen := []segment{{truncateMiddle(current, limit-width(prefix)), pStyle}}
	chosen = concat(prefix, chosen)
	for _, v := range variants {
		if width(v) <= limit {
			chosen = v
			break
		}
	}

	x := 1
	for _, s := range chosen {
		x += c.text(x, 0, s.text, c.addStyle(s.style), limit-(x-1))
	}
}

func concat(parts ...[]segment) []segment {
	var out []segment
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func drawTile(c *canvas, t treemap.Tile, selected bool) {
	r := t.Rect
	if r.Empty() {
		return
	}
	body, border := tileStyles(t, selected)
	bodyID := c.addStyle(body)

	if t.IsSmallItems() {
		c.fill(r, 'x', bodyID)
		return
	}
	c.fill(r, ' ', bodyID)
	if r.Width < 2 || r.Height < 2 {
		return
	}
	c.box(r, c.addStyle(border))

	innerW, innerH := r.Width-2, r.Height-2
	lines := tileLabel(t, innerW)
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	top := r.Y + 1 + (innerH-len(lines))/2
	for i, line := range lines {
		x := r.X + 1 + (innerW-ansi.StringWidth(line))/2
		c.text(x, top+i, line, bodyID, innerW)
	}
}

// tileLabel returns the lines drawn inside a tile, each at most width
// cells wide.
func tileLabel(t treemap.Tile, width int) []string {
	if width < 1 {
		return nil
	}
	name := t.Name
	if t.Kind == tree.Folder {
		name += "/"
	}
	lines := []string{ansi.Truncate(name, width, "…")}

	size := humanizeBytes(t.Size)
	var detail string
	if t.Kind == tree.Folder {
		detail = firstFitting(width, fmt.Sprintf("%s (%s files)", size, formatNumber(t.Descendants)), size)
	} else {
		detail = firstFitting(width, size)
	}
	if detail != "" {
		lines = append(lines, detail)
	}
	return lines
}

func drawBottom(c *canvas, f app.Frame) {
	statusY := f.Height - 2
	controlsY := f.Height - 1
	if statusY < 1 {
		return
	}

	legendWidth := 0
	if f.HasSmallItems() && ansi.StringWidth(smallFilesLegend)+1 < f.Width {
		legendWidth = ansi.StringWidth(smallFilesLegend)
		x := f.Width - legendWidth - 1
		c.text(x, statusY, smallFilesLegend, 0, legendWidth)
		c.set(x+1, statusY, 'x', c.addStyle(smallItemsStyle))
	}
	maxStatus := f.Width - legendWidth - 2

	if tile, ok := f.SelectedTile(); ok {
		line, style := selectedLine(tile, maxStatus)
		c.text(1, statusY, line, c.addStyle(style), maxStatus)
	} else if loading(f) && f.Effects.LastReadPath != "" {
		c.text(1, statusY, truncateMiddle(f.Effects.LastReadPath, maxStatus), 0, maxStatus)
	}

	long, short := controlsLong, controlsShort
	if loading(f) {
		long, short = controlsLongNoDel, controlsShortNoDel
	}
	controls := firstFitting(f.Width-1, long, short, controlsTooSmall)
	c.text(1, controlsY, controls, c.addStyle(controlsStyle), f.Width-1)
}

func selectedLine(t treemap.Tile, max int) (string, lipgloss.Style) {
	size := humanizeBytes(t.Size)
	var candidates []string
	style := selectedStyle
	switch {
	case t.IsSmallItems():
		candidates = []string{
			fmt.Sprintf("SELECTED: %d small files (%s)", t.SmallItems, size),
			fmt.Sprintf("SELECTED: %d small files", t.SmallItems),
		}
	case t.Kind == tree.Folder:
		style = folderLineStyle
		candidates = []string{
			fmt.Sprintf("SELECTED: %s (%s, %s files)", t.Name, size, formatNumber(t.Descendants)),
			fmt.Sprintf("SELECTED: %s (%s)", t.Name, size),
			"SELECTED: " + t.Name,
			t.Name,
		}
	default:
		candidates = []string{
			fmt.Sprintf("SELECTED: %s (%s)", t.Name, size),
			"SELECTED: " + t.Name,
			t.Name,
		}
	}
	if line := firstFitting(max, candidates...); line != "" {
		return line, style
	}
	return ansi.Truncate(candidates[len(candidates)-1], max, "…"), style
}

// modal returns the rendered lines of the dialog the frame's mode calls for.
func modal(f app.Frame) ([]string, bool) {
	var content []string
	color := colorPrimary
	switch m := f.Mode.(type) {
	case app.DeleteFile:
		kind := "file"
		if m.Target.Kind == tree.Folder {
			kind = "folder"
		}
		if f.Effects.DeletionInProgress {
			content = deletingLines(m.Target)
			break
		}
		detail := humanizeBytes(m.Target.Size)
		if m.Target.Kind == tree.Folder {
			detail = fmt.Sprintf("%s, %s files", detail, formatNumber(m.Target.Descendants))
		}
		content = []string{
			fmt.Sprintf("Delete %s %s?", kind, m.Target.Name),
			"(" + detail + ")",
			"",
			confirmHint,
		}
		color = colorRed
	case app.ErrorMessage:
		content = []string{"Error: " + m.Message, "", dismissHint}
		color = colorRed
	case app.WarningMessage:
		content = []string{m.Message, "", dismissHint}
		color = colorYellow
	case app.Exiting:
		content = []string{"Are you sure you want to quit?"}
		if !m.AppLoaded {
			content = append(content, "(the scan is still running)")
		}
		content = append(content, "", confirmHint)
	default:
		tile, ok := f.SelectedTile()
		if !f.Effects.DeletionInProgress || !ok {
			return nil, false
		}
		content = deletingLines(tile)
	}

	boxWidth := f.Width - 4
	if boxWidth > 60 {
		boxWidth = 60
	}
	if boxWidth < 10 {
		return nil, false
	}
	inner := boxWidth - 4
	for i, line := range content {
		content[i] = truncateMiddle(line, inner)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Bold(true).
		Padding(0, 1).
		Width(boxWidth - 2).
		Align(lipgloss.Center).
		Render(strings.Join(content, "\n"))
	return strings.Split(box, "\n"), true
}

func deletingLines(t treemap.Tile) []string {
	kind := "file"
	if t.Kind == tree.Folder {
		kind = "folder"
	}
	return []string{"Deleting " + kind, t.Name}
}
