// Package board keeps the tiles currently on screen, the selection cursor
// and the magnification level, and turns directional moves into selection
// changes against the packed layout.
package board

import (
	"errors"
	"fmt"

	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/treemap"
)

var (
	ErrNothingSelected = errors.New("nothing selected")
	ErrNotDeletable    = errors.New("small items cannot be deleted as a group")
)

// Remover deletes a path from the filesystem.
type Remover interface {
	Remove(path string) error
}

// Board is owned by a single goroutine, like the tree it projects.
type Board struct {
	items         []treemap.Item
	viewport      treemap.Rect
	magnification int
	maxMagnify    int

	tiles      []treemap.Tile
	smallItems *treemap.Rect
	selected   int
}

// New returns an empty board. maxMagnification caps ZoomIn; values outside
// 0..treemap.MaxMagnification are clamped.
func New(maxMagnification int) *Board {
	if maxMagnification < 0 || maxMagnification > treemap.MaxMagnification {
		maxMagnification = treemap.MaxMagnification
	}
	return &Board{selected: -1, maxMagnify: maxMagnification}
}

// Items converts tree entries into packer input.
func Items(entries []tree.Entry) []treemap.Item {
	items := make([]treemap.Item, len(entries))
	for i, e := range entries {
		items[i] = treemap.Item{
			Name:        e.Name,
			Size:        e.Size,
			Kind:        e.Kind,
			Descendants: e.Descendants,
		}
	}
	return items
}

// Rebuild re-packs items into viewport at the current magnification. The
// selection follows the previously selected name when it is still on the
// board, otherwise it falls back to the first tile.
func (b *Board) Rebuild(items []treemap.Item, viewport treemap.Rect) {
	prev, hadSelection := b.Selected()

	b.items = items
	b.viewport = viewport
	layout := treemap.Pack(items, viewport, b.magnification)

	b.tiles = layout.Tiles
	b.smallItems = nil
	if layout.SmallItems != nil {
		b.tiles = append(b.tiles, *layout.SmallItems)
		rect := layout.SmallItems.Rect
		b.smallItems = &rect
	}

	b.selected = -1
	if len(b.tiles) == 0 {
		return
	}
	b.selected = 0
	if !hadSelection {
		return
	}
	for i, t := range b.tiles {
		if t.IsSmallItems() == prev.IsSmallItems() && t.Name == prev.Name {
			b.selected = i
			return
		}
	}
}

// Refresh rebuilds the board from the tree's current folder, keeping the
// viewport.
func (b *Board) Refresh(t *tree.Tree) {
	b.Rebuild(Items(t.CurrentChildren()), b.viewport)
}

// Resize rebuilds the board for a new viewport.
func (b *Board) Resize(viewport treemap.Rect) {
	b.Rebuild(b.items, viewport)
}

// ClearSelection drops the cursor so the next rebuild starts at the first
// tile. Used when the current directory changes.
func (b *Board) ClearSelection() {
	b.selected = -1
}

// SelectName moves the cursor to the named tile, if present.
func (b *Board) SelectName(name string) bool {
	for i, t := range b.tiles {
		if !t.IsSmallItems() && t.Name == name {
			b.selected = i
			return true
		}
	}
	return false
}

func (b *Board) Tiles() []treemap.Tile      { return b.tiles }
func (b *Board) SmallItems() *treemap.Rect  { return b.smallItems }
func (b *Board) Magnification() int         { return b.magnification }
func (b *Board) SelectedIndex() (int, bool) { return b.selected, b.selected >= 0 }

// Selected returns the tile under the cursor.
func (b *Board) Selected() (treemap.Tile, bool) {
	if b.selected < 0 || b.selected >= len(b.tiles) {
		return treemap.Tile{}, false
	}
	return b.tiles[b.selected], true
}

// ZoomIn raises the magnification by one step and re-packs. It reports
// whether the level changed.
func (b *Board) ZoomIn() bool {
	if b.magnification >= b.maxMagnify {
		return false
	}
	b.magnification++
	b.Rebuild(b.items, b.viewport)
	return true
}

func (b *Board) ZoomOut() bool {
	if b.magnification == 0 {
		return false
	}
	b.magnification--
	b.Rebuild(b.items, b.viewport)
	return true
}

func (b *Board) ZoomReset() bool {
	if b.magnification == 0 {
		return false
	}
	b.magnification = 0
	b.Rebuild(b.items, b.viewport)
	return true
}

// DeleteSelected removes the selected entry from disk and, only once that
// succeeded, from the tree, then re-packs the current folder. It returns the
// number of bytes freed.
func (b *Board) DeleteSelected(t *tree.Tree, rm Remover) (int64, error) {
	tile, ok := b.Selected()
	if !ok {
		return 0, ErrNothingSelected
	}
	if tile.IsSmallItems() {
		return 0, ErrNotDeletable
	}

	segments := append(t.CurrentPath(), tile.Name)
	if err := rm.Remove(t.AbsPath(segments)); err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", tile.Name, err)
	}
	freed, err := t.Delete(segments)
	if err != nil {
		return 0, err
	}
	b.Refresh(t)
	return freed, nil
}
