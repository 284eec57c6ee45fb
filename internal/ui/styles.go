package ui

import (
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/treemap"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorBorder  = lipgloss.Color("#4B5563")
	colorFolder  = lipgloss.Color("#7DD3FC")
	colorFile    = lipgloss.Color("#E4E4E7")
	colorRed     = lipgloss.Color("#EF4444")
	colorYellow  = lipgloss.Color("#FACC15")
	colorGreen   = lipgloss.Color("#22C55E")
	colorWhite   = lipgloss.Color("#FFFFFF")
	colorBlack   = lipgloss.Color("#000000")
)

// tilePalette holds muted backgrounds; a tile keeps its color across
// re-packs because the index comes from its name.
var tilePalette = []lipgloss.Color{
	"#1E3A5F",
	"#2D2D2D",
	"#2F3B2A",
	"#3B2A36",
	"#3A332A",
	"#263A3B",
	"#312A3B",
	"#3B2A2A",
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	pathStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorFolder)
	pathErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	freedFlashStyle = lipgloss.NewStyle().Bold(true).Background(colorGreen).Foreground(colorBlack)
	loadingStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	failedStyle     = lipgloss.NewStyle().Foreground(colorRed)
	selectedStyle   = lipgloss.NewStyle().Bold(true)
	folderLineStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFolder)
	controlsStyle   = lipgloss.NewStyle().Bold(true)
	smallItemsStyle = lipgloss.NewStyle().Background(colorWhite).Foreground(colorBlack)
	tooSmallStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

func paletteIndex(name string) int {
	return int(xxhash.Sum64String(name) % uint64(len(tilePalette)))
}

// tileStyles returns the body and border styles for a tile.
func tileStyles(t treemap.Tile, selected bool) (body, border lipgloss.Style) {
	if t.IsSmallItems() {
		body = smallItemsStyle
		if selected {
			body = body.Background(colorPrimary).Foreground(colorWhite).Bold(true)
		}
		return body, body
	}

	bg := tilePalette[paletteIndex(t.Name)]
	fg := colorFile
	if t.Kind == tree.Folder {
		fg = colorFolder
	}
	body = lipgloss.NewStyle().Background(bg).Foreground(fg)
	border = lipgloss.NewStyle().Background(bg).Foreground(colorBorder)
	if t.Kind == tree.Folder {
		body = body.Bold(true)
	}
	if selected {
		body = body.Background(colorPrimary).Foreground(colorWhite).Bold(true)
		border = border.Background(colorPrimary).Foreground(colorWhite)
	}
	return body, border
}
