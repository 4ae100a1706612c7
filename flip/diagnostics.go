package flip

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics summarizes the state of a tank.
type Diagnostics struct {
	Particles       int
	FluidCells      int
	MeanDivergence  float64
	MaxDivergence   float64
	CloseFraction   float64
	MaxSpeed        float64
	RestDensity     float64
	ParticleDensity float64 // Mean density sampled at the particles
}

// Divergence appends the absolute velocity divergence of every interior
// fluid cell to out and returns it.
func (t *Tank) Divergence(out []float64) []float64 {
	n := t.NY
	for i := 1; i < t.NX-1; i++ {
		for j := 1; j < t.NY-1; j++ {
			c := i*n + j
			if t.CellType[c] != Fluid {
				continue
			}
			div := t.U[c+n] - t.U[c] + t.V[c+1] - t.V[c]
			out = append(out, math.Abs(div))
		}
	}
	return out
}

// MeanDivergence returns the mean absolute divergence over interior fluid
// cells, or zero if there are none.
func (t *Tank) MeanDivergence() float64 {
	divs := t.Divergence(nil)
	if len(divs) == 0 {
		return 0
	}
	return stat.Mean(divs, nil)
}

// ClosePairs counts the pairs of particles closer together than two radii.
// Coincident pairs are counted too. It rebuilds the spatial hash.
func (t *Tank) ClosePairs() int {
	ph := &t.hash
	ph.rebuild(t.Pos, t.NumParticles)

	minDist := 2 * t.Radius
	minDist2 := minDist * minDist
	pairs := 0

	for i := 0; i < t.NumParticles; i++ {
		px, py := t.Pos[2*i], t.Pos[2*i+1]
		x0, x1, y0, y1 := ph.neighborhood(px, py)
		for xi := x0; xi <= x1; xi++ {
			for yi := y0; yi <= y1; yi++ {
				b := ph.Idx(xi, yi)
				for k := ph.first[b]; k < ph.first[b+1]; k++ {
					id := int(ph.ids[k])
					if id <= i {
						continue
					}
					dx, dy := t.Pos[2*id]-px, t.Pos[2*id+1]-py
					if dx*dx+dy*dy < minDist2 {
						pairs++
					}
				}
			}
		}
	}
	return pairs
}

// CloseFraction returns the fraction of all particle pairs which are closer
// together than two radii.
func (t *Tank) CloseFraction() float64 {
	n := t.NumParticles
	if n < 2 {
		return 0
	}
	return float64(t.ClosePairs()) / (float64(n) * float64(n-1) / 2)
}

// Diagnose measures the current state of the tank.
func (t *Tank) Diagnose() Diagnostics {
	diag := Diagnostics{
		Particles:     t.NumParticles,
		CloseFraction: t.CloseFraction(),
		RestDensity:   t.RestDensity,
	}

	divs := t.Divergence(nil)
	diag.FluidCells = len(divs)
	if len(divs) > 0 {
		diag.MeanDivergence = stat.Mean(divs, nil)
		diag.MaxDivergence = floats.Max(divs)
	}

	if t.NumParticles > 0 {
		speeds := make([]float64, t.NumParticles)
		for i := range speeds {
			speeds[i] = math.Hypot(t.Vel[2*i], t.Vel[2*i+1])
		}
		diag.MaxSpeed = floats.Max(speeds)

		dens := t.cellIntr.EvalAll(t.ParticleDensity, t.Pos[:2*t.NumParticles])
		diag.ParticleDensity = stat.Mean(dens, nil)
	}

	return diag
}
