package flip

import (
	"math"
)

const solidShade = 0.5

// UpdateShading recomputes CellColor. Solid cells are a flat gray, air cells
// are black and fluid cells are shaded by their density relative to
// RestDensity.
func (t *Tank) UpdateShading() {
	zero(t.CellColor)
	for i, ct := range t.CellType {
		switch ct {
		case Solid:
			t.setShade(i, solidShade)
		case Fluid:
			d := t.ParticleDensity[i]
			if t.RestDensity > 0 {
				d /= t.RestDensity
			}
			t.setShade(i, BandShade(d, 0, 2))
		}
	}
}

func (t *Tank) setShade(idx int, val float64) {
	t.CellColor[3*idx] = val
	t.CellColor[3*idx+1] = val
	t.CellColor[3*idx+2] = val
}

// BandShade maps val from [minVal, maxVal] onto four equal bands which
// alternately ramp up and down. With the range [0, 2] used for fluid cells,
// the shade falls to zero exactly at the rest density and climbs again on
// either side of it.
func BandShade(val, minVal, maxVal float64) float64 {
	val = math.Min(math.Max(val, minVal), maxVal-0.0001)
	d := maxVal - minVal
	if d == 0 {
		val = 0.5
	} else {
		val = (val - minVal) / d
	}

	const m = 0.25
	num := math.Floor(val / m)
	s := (val - num*m) / m

	switch num {
	case 0, 2:
		return s
	case 1, 3:
		return 1 - s
	}
	return 0
}
