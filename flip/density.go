package flip

// UpdateDensity splats a unit mass for every particle onto the cell centers
// around it. The first call after the tank is built also fixes RestDensity,
// the mean density over fluid cells, which the projection later pushes the
// fluid back towards. RestDensity is never recomputed afterwards.
func (t *Tank) UpdateDensity() {
	d := t.ParticleDensity
	zero(d)

	for i := 0; i < t.NumParticles; i++ {
		t.cellIntr.Splat(d, nil, t.Pos[2*i], t.Pos[2*i+1], 1)
	}

	if t.RestDensity == 0 {
		sum, fluidCells := 0.0, 0
		for i := range d {
			if t.CellType[i] == Fluid {
				sum += d[i]
				fluidCells++
			}
		}
		if fluidCells > 0 {
			t.RestDensity = sum / float64(fluidCells)
		}
	}
}
