package render

import (
	"strings"

	"github.com/phil-mansfield/flipascii/flip"
)

// Window returns the cells of a tank which are drawn to the screen.
func Window(t *flip.Tank) (x0, x1, y0, y1 int) {
	cb := t.Crop(flip.CropX, flip.CropY)
	return cb.Origin[0], cb.Origin[0] + cb.Width[0],
		cb.Origin[1], cb.Origin[1] + cb.Width[1]
}

// Frame renders the visible cells of a tank as a block of text, one line per
// row of cells. The top of the tank comes first.
func Frame(t *flip.Tank, p *Palette) string {
	sb := &strings.Builder{}
	WriteFrame(sb, t, p)
	return sb.String()
}

// WriteFrame writes the same text as Frame to sb.
func WriteFrame(sb *strings.Builder, t *flip.Tank, p *Palette) {
	x0, x1, y0, y1 := Window(t)
	sb.Grow((x1 - x0 + 1) * (y1 - y0) * 2)

	for j := y1 - 1; j >= y0; j-- {
		for i := x0; i < x1; i++ {
			sb.WriteRune(p.Glyph(j, i, t.Shade(t.Idx(i, j))))
		}
		sb.WriteByte('\n')
	}
}
