// Package treemap packs a folder's children into non-overlapping rectangles
// whose areas follow the children's sizes (squarified layout). Children too
// small to show on their own are folded into a single small-items tile.
package treemap

import (
	"math"
	"sort"

	"github.com/tw93/diskmap/internal/tree"
)

const (
	// MinTileArea is the proportional area, in cells, a child needs at
	// magnification 0 to be placed on its own.
	MinTileArea = 16
	// MaxMagnification is the level at which the visibility floor reaches a
	// single cell.
	MaxMagnification = 4
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

func (r Rect) Empty() bool {
	return r.Width < 1 || r.Height < 1
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Item is the packer's view of one child entry.
type Item struct {
	Name        string
	Size        int64
	Kind        tree.Kind
	Descendants int64
}

// Tile is an item with its assigned rectangle. For the small-items tile,
// SmallItems is the number of children folded into it and Size their total.
type Tile struct {
	Item
	Rect
	SmallItems int
}

func (t Tile) IsSmallItems() bool {
	return t.SmallItems > 0
}

// Layout is the result of one packing pass.
type Layout struct {
	Tiles      []Tile
	SmallItems *Tile
}

// VisibilityFloor returns the proportional area, in cells, below which a
// child is folded into the small-items tile at the given magnification.
func VisibilityFloor(magnification int) float64 {
	m := clampMagnification(magnification)
	floor := MinTileArea >> m
	if floor < 1 {
		floor = 1
	}
	return float64(floor)
}

func clampMagnification(m int) int {
	if m < 0 {
		return 0
	}
	if m > MaxMagnification {
		return MaxMagnification
	}
	return m
}

// Pack lays items out inside viewport. Items keep their relative order when
// sizes tie, so packing the same input twice yields the same layout.
func Pack(items []Item, viewport Rect, magnification int) Layout {
	if len(items) == 0 || viewport.Empty() {
		return Layout{}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Size > items[order[b]].Size
	})

	var total float64
	for _, it := range items {
		if it.Size > 0 {
			total += float64(it.Size)
		}
	}
	viewportArea := float64(viewport.Area())
	areas := make([]float64, len(order))
	for i, idx := range order {
		if total == 0 {
			areas[i] = viewportArea / float64(len(items))
			continue
		}
		if items[idx].Size > 0 {
			areas[i] = viewportArea * float64(items[idx].Size) / total
		}
	}

	floor := VisibilityFloor(magnification)
	candidates := 0
	for candidates < len(areas) && areas[candidates] >= floor {
		candidates++
	}

	for k := candidates; k >= 0; k-- {
		rects, ok := place(areas, k, viewport)
		if !ok {
			continue
		}
		return assemble(items, order, k, rects)
	}
	// place always succeeds for k == 0.
	return Layout{}
}

// place runs the layout with the k largest items on their own and the rest
// in one bucket, which is never weighted below MinTileArea. It fails if any
// rectangle would be narrower or shorter than one cell.
func place(areas []float64, k int, viewport Rect) ([]Rect, bool) {
	weights := make([]float64, 0, k+1)
	weights = append(weights, areas[:k]...)
	if k < len(areas) {
		var bucket float64
		for _, a := range areas[k:] {
			bucket += a
		}
		weights = append(weights, math.Max(bucket, MinTileArea))
	}

	rects := squarify(weights, viewport)
	for _, r := range rects {
		if r.Empty() {
			return nil, false
		}
	}
	return rects, true
}

func assemble(items []Item, order []int, k int, rects []Rect) Layout {
	layout := Layout{Tiles: make([]Tile, 0, k)}
	for i := 0; i < k; i++ {
		layout.Tiles = append(layout.Tiles, Tile{Item: items[order[i]], Rect: rects[i]})
	}
	if k < len(order) {
		small := Tile{Rect: rects[k], SmallItems: len(order) - k}
		for _, idx := range order[k:] {
			small.Size += items[idx].Size
		}
		layout.SmallItems = &small
	}
	return layout
}
