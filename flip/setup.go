package flip

import (
	"math"
)

const (
	// TargetLongSide controls how many cells a view gets: the cell size in
	// pixels is chosen so that width*height/cellSize^2 is close to it.
	TargetLongSide = 128 * 56
	// MinGridSize is the smallest cell size, in pixels.
	MinGridSize = 4
	// CropX and CropY are the number of cells hidden on each side of the
	// view, to keep the walls off screen.
	CropX = 1
	CropY = 2

	simHeight = 2.0
)

// Layout describes how a tank maps onto a view measured in pixels.
type Layout struct {
	// GridSize is the width of a single cell in pixels.
	GridSize int
	// RealWidth and RealHeight are the size of the rendered area in pixels,
	// including the cropped cells.
	RealWidth, RealHeight float64
	// CScale is the number of pixels per simulation unit.
	CScale              float64
	SimWidth, SimHeight float64
}

// NewLayout computes the layout of a width x height pixel view. Any
// positive width and height give a usable layout.
func NewLayout(width, height float64) Layout {
	gs := int(math.Round(math.Sqrt(width * height / TargetLongSide)))
	if gs < MinGridSize {
		gs = MinGridSize
	}
	g := float64(gs)

	l := Layout{GridSize: gs}
	l.RealWidth = math.Ceil(width/g+CropX*2) * g
	l.RealHeight = math.Ceil(height/g+CropY*2) * g
	l.SimHeight = simHeight
	l.CScale = l.RealHeight / l.SimHeight
	l.SimWidth = l.RealWidth / l.CScale
	return l
}

// Rows returns the number of cells along the vertical axis of the view.
func (l Layout) Rows() float64 {
	return l.RealHeight / float64(l.GridSize)
}

// ToSim converts a point in pixel space, where y grows downwards, into
// simulation space, where y grows upwards.
func (l Layout) ToSim(px, py float64) (x, y float64) {
	return px / l.CScale, (l.RealHeight - py) / l.CScale
}

// CellToPixel returns the pixel position of the center of cell (i, j).
func (l Layout) CellToPixel(i, j int) (px, py float64) {
	g := float64(l.GridSize)
	return (float64(i) + 0.5) * g, l.RealHeight - (float64(j)+0.5)*g
}

// TankConfig controls the initial block of water.
type TankConfig struct {
	Density float64
	// RelWaterWidth and RelWaterHeight are the fraction of the tank which
	// starts filled.
	RelWaterWidth, RelWaterHeight float64
}

// DefaultTankConfig returns a tank filled across its full width and up to
// roughly the golden ratio of its height.
func DefaultTankConfig() TankConfig {
	return TankConfig{
		Density:        1000,
		RelWaterWidth:  1,
		RelWaterHeight: 0.618,
	}
}

// Setup builds a tank for the given layout: walls on the left, right and
// bottom and a hexagonally packed block of particles. The block is shifted
// right by half the horizontal slack and down by half the vertical slack, so
// its lowest rows start below the floor and are pushed up on the first step.
// Particles have a radius of 0.3 cells and start one diameter apart.
func Setup(l Layout, tc TankConfig) *Tank {
	tankHeight, tankWidth := l.SimHeight, l.SimWidth
	h := tankHeight / l.Rows()
	r := 0.3 * h
	dx := 2 * r
	dy := math.Sqrt(3) / 2 * dx

	numX := int(math.Floor((tc.RelWaterWidth*tankWidth - 2*h - 2*r) / dx))
	numY := int(math.Floor((tc.RelWaterHeight*tankHeight - 2*h - 2*r) / dy))
	numX, numY = maxInt(numX, 0), maxInt(numY, 0)

	t := NewTank(tc.Density, tankWidth, tankHeight, h, r, numX*numY)

	xOffset := (tankWidth - float64(numX)*dx) / 2
	yOffset := (tankHeight - float64(numY)*dy) * -0.5
	for i := 0; i < numX; i++ {
		for j := 0; j < numY; j++ {
			x := h + r + dx*float64(i) + xOffset
			if j%2 == 1 {
				x += r
			}
			y := h + r + dy*float64(j) + yOffset
			t.AddParticle(x, y)
		}
	}

	t.SetWalls()
	return t
}
