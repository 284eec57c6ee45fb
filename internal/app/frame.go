package app

import "github.com/tw93/diskmap/internal/treemap"

const (
	// MinWidth and MinHeight are the smallest terminal the board is drawn in.
	MinWidth  = 50
	MinHeight = 15

	TitleHeight  = 1
	BottomHeight = 2
)

// Frame is a finished snapshot handed to the renderer. It shares no state
// with the consumer goroutine.
type Frame struct {
	Mode    Mode
	Effects Effects

	Width, Height int
	Tiles         []treemap.Tile
	// SmallItems is the area of the small-items tile, nil when there is none.
	SmallItems    *treemap.Rect
	Selected      int
	Magnification int

	BasePath           string
	CurrentPath        []string
	CurrentSize        int64
	CurrentDescendants int64
	TotalSize          int64
	TotalDescendants   int64
	SpaceFreed         int64
	FailedToRead       int64

	Loaded             bool
	DeleteConfirmation bool
}

// SelectedTile returns the tile under the cursor, if any.
func (f Frame) SelectedTile() (treemap.Tile, bool) {
	if f.Selected < 0 || f.Selected >= len(f.Tiles) {
		return treemap.Tile{}, false
	}
	return f.Tiles[f.Selected], true
}

func (f Frame) HasSmallItems() bool {
	return f.SmallItems != nil
}

// Renderer draws frames. Render must not block the caller for long.
type Renderer interface {
	Render(Frame)
}

// Viewport is the board area of a width x height terminal: everything
// between the title line and the two bottom lines.
func Viewport(width, height int) treemap.Rect {
	h := height - TitleHeight - BottomHeight
	if h < 0 {
		h = 0
	}
	if width < 0 {
		width = 0
	}
	return treemap.Rect{X: 0, Y: TitleHeight, Width: width, Height: h}
}

func tooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}
