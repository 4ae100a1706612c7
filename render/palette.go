/*package render turns the shading of a tank into text.
*/
package render

import (
	"math"
	"sort"
)

// Glyph is a character along with a rough measure of how much ink it puts on
// the screen.
type Glyph struct {
	Char   rune
	Weight int
}

var baseGlyphs = []Glyph{
	{'~', 12198},
	{':', 6921},
	{'-', 5589},
	{'·', 3267},
	{' ', 0},
	{' ', 0},
}

// DefaultTables returns one table per letter of "FLUID". Every table shares
// the same light glyphs and differs only in its heaviest three.
func DefaultTables() [][]Glyph {
	heavy := [][]Glyph{
		{{'F', 26574}, {'F', 26574}, {'f', 17490}},
		{{'L', 21327}, {'L', 21327}, {'l', 14019}},
		{{'U', 32973}, {'U', 32973}, {'u', 24093}},
		{{'I', 14883}, {'I', 14883}, {'i', 13638}},
		{{'D', 36198}, {'D', 36198}, {'d', 30762}},
	}

	tables := make([][]Glyph, len(heavy))
	for i := range heavy {
		tables[i] = append(append([]Glyph{}, heavy[i]...), baseGlyphs...)
	}
	return tables
}

// Palette maps shades onto characters. Which table is used depends on the
// position of the cell, so neighboring cells of the same shade usually get
// different characters. A Palette is immutable after construction.
type Palette struct {
	tables [][]rune
}

// NewPalette creates a palette from the given tables. Each table is sorted
// from lightest to heaviest glyph; glyphs of equal weight keep their order.
// Empty tables are dropped, and a palette with no tables renders blanks.
func NewPalette(tables [][]Glyph) *Palette {
	p := &Palette{}
	for _, table := range tables {
		if len(table) == 0 {
			continue
		}
		sorted := append([]Glyph{}, table...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Weight < sorted[j].Weight
		})

		chars := make([]rune, len(sorted))
		for i := range sorted {
			chars[i] = sorted[i].Char
		}
		p.tables = append(p.tables, chars)
	}
	return p
}

// DefaultPalette returns NewPalette(DefaultTables()).
func DefaultPalette() *Palette {
	return NewPalette(DefaultTables())
}

// Tables returns the number of tables in the palette.
func (p *Palette) Tables() int {
	return len(p.tables)
}

// Table returns a copy of the sorted characters of table i.
func (p *Palette) Table(i int) []rune {
	return append([]rune{}, p.tables[i]...)
}

// Glyph returns the character for a cell at the given row and column with
// the given shade. Shades outside [0, 1) are clamped onto the nearest end of
// the table.
func (p *Palette) Glyph(row, col int, shade float64) rune {
	if len(p.tables) == 0 {
		return ' '
	}
	table := p.tables[pMod(row+col+1, len(p.tables))]

	idx := 0
	if !math.IsNaN(shade) {
		idx = int(math.Floor(shade * float64(len(table))))
	}
	if idx < 0 {
		idx = 0
	} else if idx >= len(table) {
		idx = len(table) - 1
	}
	return table[idx]
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
