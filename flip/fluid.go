/*package flip implements a 2D PIC/FLIP fluid simulation: particles carry the
fluid around a tank and a staggered background grid is borrowed every step to
make the flow incompressible.
*/
package flip

import (
	"math"

	"github.com/phil-mansfield/flipascii/geom"
	"github.com/phil-mansfield/flipascii/interpolate"
)

// CellType classifies a grid cell.
type CellType int32

const (
	Fluid CellType = iota
	Air
	Solid
)

func (ct CellType) String() string {
	switch ct {
	case Fluid:
		return "Fluid"
	case Air:
		return "Air"
	case Solid:
		return "Solid"
	}
	return "Unknown"
}

// Tank is a PIC/FLIP simulation on a staggered grid. U is stored on the left
// face of each cell and V on its bottom face. All per-cell buffers use the
// indexing of Grid, and particle buffers hold interleaved (x, y) pairs.
//
// Tank is not safe for concurrent use.
type Tank struct {
	Density float64
	geom.Grid
	H, InvH float64

	U, V, DU, DV, PrevU, PrevV []float64
	P, S                       []float64
	CellType                   []CellType
	// CellColor holds three shading channels per cell. They are always
	// equal; only the first is used when rendering.
	CellColor []float64

	MaxParticles, NumParticles int
	Radius                     float64
	Pos, Vel                   []float64

	ParticleDensity []float64
	RestDensity     float64

	// Record turns on the divergence bookkeeping in Stats. It costs two
	// extra passes over the grid per step.
	Record bool
	Stats  StepStats

	hash     particleHash
	uIntr    interpolate.Staggered
	vIntr    interpolate.Staggered
	cellIntr interpolate.Staggered
}

// StepStats are measurements taken during the most recent step of a Tank
// with Record set.
type StepStats struct {
	DivergenceBefore, DivergenceAfter float64
}

// NewTank allocates a tank of the given width and height in simulation units.
// The cell spacing is the smallest spacing which still fits a whole number of
// cells no wider than spacing in each direction. The tank starts without any
// particles and with every cell open.
func NewTank(
	density, width, height, spacing, radius float64, maxParticles int,
) *Tank {
	t := &Tank{}
	t.Density = density

	// The smallest grid with an interior cell.
	nx := maxInt(int(math.Floor(width/spacing)), 3)
	ny := maxInt(int(math.Floor(height/spacing)), 3)
	t.Init(nx, ny)

	t.H = math.Max(width/float64(nx), height/float64(ny))
	t.InvH = 1 / t.H

	n := t.Cells
	t.U, t.V = make([]float64, n), make([]float64, n)
	t.DU, t.DV = make([]float64, n), make([]float64, n)
	t.PrevU, t.PrevV = make([]float64, n), make([]float64, n)
	t.P, t.S = make([]float64, n), make([]float64, n)
	t.CellType = make([]CellType, n)
	t.CellColor = make([]float64, 3*n)
	t.ParticleDensity = make([]float64, n)
	for i := range t.S {
		t.S[i] = 1
	}

	t.MaxParticles = maxParticles
	t.Radius = radius
	t.Pos = make([]float64, 2*maxParticles)
	t.Vel = make([]float64, 2*maxParticles)

	t.hash.init(width, height, radius, maxParticles)

	h2 := t.H / 2
	t.uIntr.Init(nx, ny, t.H, 0, h2)
	t.vIntr.Init(nx, ny, t.H, h2, 0)
	t.cellIntr.Init(nx, ny, t.H, h2, h2)

	return t
}

// SetWalls marks the left, right and bottom rows of cells as solid and opens
// every other cell.
func (t *Tank) SetWalls() {
	for idx := range t.S {
		if t.Wall(t.Coords(idx)) {
			t.S[idx] = 0
		} else {
			t.S[idx] = 1
		}
	}
}

// AddParticle appends a particle at rest at (x, y). It returns false if the
// tank is already full.
func (t *Tank) AddParticle(x, y float64) bool {
	if t.NumParticles >= t.MaxParticles {
		return false
	}
	i := t.NumParticles
	t.Pos[2*i], t.Pos[2*i+1] = x, y
	t.Vel[2*i], t.Vel[2*i+1] = 0, 0
	t.NumParticles++
	return true
}

// Shade returns the display shade of a cell in [0, 1].
func (t *Tank) Shade(idx int) float64 {
	return t.CellColor[3*idx]
}

// Bounds returns the region particles are confined to.
func (t *Tank) Bounds() (minX, maxX, minY, maxY float64) {
	h, r := t.H, t.Radius
	return h + r, float64(t.NX-1)*h - r, h + r, float64(t.NY-1)*h - r
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}
