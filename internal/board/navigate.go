package board

import "github.com/tw93/diskmap/internal/treemap"

// Direction is a cursor move on the board.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// span is a closed-open interval along one axis, in doubled coordinates so
// tile centers stay integral.
type span struct {
	lo, hi int
}

func (s span) center() int { return (s.lo + s.hi) / 2 }

func (s span) overlaps(o span) bool {
	return s.lo < o.hi && o.lo < s.hi
}

func (s span) gap(o span) int {
	switch {
	case o.hi <= s.lo:
		return s.lo - o.hi
	case s.hi <= o.lo:
		return o.lo - s.hi
	default:
		return 0
	}
}

// axes returns the tile's span along the move axis and the perpendicular one.
func axes(r treemap.Rect, d Direction) (primary, perpendicular span) {
	h := span{2 * r.X, 2 * (r.X + r.Width)}
	v := span{2 * r.Y, 2 * (r.Y + r.Height)}
	if d == Left || d == Right {
		return h, v
	}
	return v, h
}

type candidate struct {
	aligned  bool
	first    int
	second   int
	index    int
	hasValue bool
}

func (c candidate) better(o candidate) bool {
	if !o.hasValue {
		return true
	}
	if c.aligned != o.aligned {
		return c.aligned
	}
	if c.first != o.first {
		return c.first < o.first
	}
	if c.second != o.second {
		return c.second < o.second
	}
	return c.index < o.index
}

// Move shifts the selection to the neighbouring tile in direction d. Tiles
// sharing the current tile's band on the perpendicular axis are preferred;
// among them the closest one wins. It reports whether the selection moved.
func (b *Board) Move(d Direction) bool {
	current, ok := b.Selected()
	if !ok {
		return false
	}
	curPrimary, curPerp := axes(current.Rect, d)
	sign := 1
	if d == Up || d == Left {
		sign = -1
	}

	var best candidate
	for i, t := range b.tiles {
		if i == b.selected {
			continue
		}
		primary, perp := axes(t.Rect, d)
		distance := sign * (primary.center() - curPrimary.center())
		if distance <= 0 {
			continue
		}
		c := candidate{index: i, hasValue: true}
		if perp.overlaps(curPerp) {
			c.aligned = true
			c.first = distance
			c.second = abs(perp.center() - curPerp.center())
		} else {
			c.first = perp.gap(curPerp)
			c.second = distance
		}
		if c.better(best) {
			best = c
		}
	}
	if !best.hasValue {
		return false
	}
	b.selected = best.index
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
