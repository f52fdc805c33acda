package export

import (
	"fmt"
	"image/color"
	"strings"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LineSVG renders lines sharing one y-axis as a standalone SVG document.
// Undefined samples start a new path segment.
func LineSVG(lines []Line, title string, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<text x="%d" y="16" fill="%s" font-family="monospace" font-size="12">%s</text>
`, width, height, width, height, hex(background), margin, hex(label), escape(title)))

	lo, hi, n, ok := bounds(lines)
	if ok && n > 1 {
		x0, y0 := float64(margin), float64(margin/2)
		x1, y1 := float64(width-margin/2), float64(height-margin)

		for _, l := range lines {
			var d strings.Builder
			move := true
			for i, v := range l.Values {
				if !finite(v) {
					move = true
					continue
				}
				x := x0 + float64(i)/float64(n-1)*(x1-x0)
				y := y1 - (v-lo)/(hi-lo)*(y1-y0)
				if move {
					if d.Len() > 0 {
						d.WriteByte(' ')
					}
					d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
					move = false
				} else {
					d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			if d.Len() == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, hex(l.Color), d.String()))
		}
	}

	for i, l := range lines {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, margin+i*110, height-margin/2+4, hex(l.Color), escape(l.Label)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
