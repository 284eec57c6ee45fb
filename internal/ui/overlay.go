package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered view with the
// overlay lines, anchored at (anchorX, anchorY). Escape sequences on both
// sides of the overlay are kept intact.
func spliceOverlay(view string, overlay []string, anchorX, anchorY int) string {
	if len(overlay) == 0 {
		return view
	}

	lines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlay[0])

	for i, overlayLine := range overlay {
		y := anchorY + i
		if y < 0 || y >= len(lines) {
			continue
		}
		line := lines[y]
		lineWidth := ansi.StringWidth(line)

		var b strings.Builder
		if anchorX > 0 {
			b.WriteString(ansi.Truncate(line, anchorX, ""))
		}
		b.WriteString("\x1b[0m")
		b.WriteString(overlayLine)
		b.WriteString("\x1b[0m")
		if end := anchorX + overlayWidth; end < lineWidth {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
