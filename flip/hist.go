package flip

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Hist is a histogram of the particle density of fluid cells, measured in
// units of the rest density.
type Hist struct {
	Min, Max float64
	Bins     int

	Edges   []float64 // len(Bins + 1)
	Centers []float64
	Counts  []float64
}

// NewHist creates an empty histogram with bins equal bins over [min, max].
func NewHist(min, max float64, bins int) *Hist {
	h := &Hist{
		Min: min, Max: max, Bins: bins,
		Edges:   floats.Span(make([]float64, bins+1), min, max),
		Centers: make([]float64, bins),
		Counts:  make([]float64, bins),
	}
	for i := range h.Centers {
		h.Centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return h
}

// DensityHist bins the fluid cells of t by their relative density. Cells
// outside the range of h land in the nearest bin. Before the rest density
// is known, raw particle counts are used.
func (t *Tank) DensityHist(h *Hist) {
	xs := []float64{}
	for i, ct := range t.CellType {
		if ct != Fluid {
			continue
		}
		d := t.ParticleDensity[i]
		if t.RestDensity > 0 {
			d /= t.RestDensity
		}
		xs = append(xs, d)
	}

	// stat.Histogram wants sorted values inside the outer edges.
	hi := h.Edges[h.Bins]
	for i := range xs {
		if xs[i] < h.Min {
			xs[i] = h.Min
		} else if xs[i] >= hi {
			xs[i] = h.Centers[h.Bins-1]
		}
	}
	sort.Float64s(xs)

	for i := range h.Counts {
		h.Counts[i] = 0
	}
	if len(xs) == 0 {
		return
	}
	stat.Histogram(h.Counts, h.Edges, xs, nil)
}
