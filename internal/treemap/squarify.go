package treemap

import "math"

type frect struct {
	x, y, w, h float64
}

// squarify lays weights out in order inside viewport, scaled so they cover it
// exactly. Rows are grown while the worst aspect ratio improves. Edges are
// snapped to whole cells from shared float coordinates, so neighbours never
// overlap or leave gaps.
func squarify(weights []float64, viewport Rect) []Rect {
	rects := make([]Rect, len(weights))
	if len(weights) == 0 {
		return rects
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	scale := float64(viewport.Width*viewport.Height) / sum
	scaled := make([]float64, len(weights))
	for i, w := range weights {
		scaled[i] = w * scale
	}

	free := frect{
		x: float64(viewport.X),
		y: float64(viewport.Y),
		w: float64(viewport.Width),
		h: float64(viewport.Height),
	}
	right := free.x + free.w
	bottom := free.y + free.h

	for start := 0; start < len(scaled); {
		short := math.Min(free.w, free.h)
		end := start + 1
		rowSum, rowMin, rowMax := scaled[start], scaled[start], scaled[start]
		worst := worstRatio(rowSum, rowMin, rowMax, short)
		for end < len(scaled) {
			a := scaled[end]
			nextSum := rowSum + a
			nextWorst := worstRatio(nextSum, math.Min(rowMin, a), math.Max(rowMax, a), short)
			if nextWorst > worst {
				break
			}
			rowSum, worst = nextSum, nextWorst
			rowMin, rowMax = math.Min(rowMin, a), math.Max(rowMax, a)
			end++
		}
		last := end == len(scaled)

		if free.w >= free.h {
			// Column on the left edge of the free space.
			stripEnd := free.x + rowSum/free.h
			if last {
				stripEnd = right
			}
			pos := free.y
			for i := start; i < end; i++ {
				next := pos + scaled[i]/(stripEnd-free.x)
				if i == end-1 {
					next = bottom
				}
				rects[i] = snap(free.x, pos, stripEnd, next)
				pos = next
			}
			free.w -= stripEnd - free.x
			free.x = stripEnd
		} else {
			// Row along the top edge of the free space.
			stripEnd := free.y + rowSum/free.w
			if last {
				stripEnd = bottom
			}
			pos := free.x
			for i := start; i < end; i++ {
				next := pos + scaled[i]/(stripEnd-free.y)
				if i == end-1 {
					next = right
				}
				rects[i] = snap(pos, free.y, next, stripEnd)
				pos = next
			}
			free.h -= stripEnd - free.y
			free.y = stripEnd
		}
		start = end
	}
	return rects
}

// worstRatio is the largest width:height (or height:width) ratio a row of
// the given total, smallest and largest area would have along side length s.
func worstRatio(sum, min, max, s float64) float64 {
	s2 := s * s
	sum2 := sum * sum
	return math.Max(s2*max/sum2, sum2/(s2*min))
}

func snap(x0, y0, x1, y1 float64) Rect {
	left := int(math.Round(x0))
	top := int(math.Round(y0))
	return Rect{
		X:      left,
		Y:      top,
		Width:  int(math.Round(x1)) - left,
		Height: int(math.Round(y1)) - top,
	}
}
