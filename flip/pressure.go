package flip

// SolveIncompressibility runs iters relaxation sweeps over the fluid cells,
// each of which removes the velocity divergence of a cell by adjusting the
// velocities on its open faces. overRelaxation scales every correction. With
// compensateDrift set, cells denser than RestDensity are also pushed apart.
// Cells with no open neighbor are skipped.
func (t *Tank) SolveIncompressibility(
	iters int, dt, overRelaxation float64, compensateDrift bool,
) {
	zero(t.P)
	copy(t.PrevU, t.U)
	copy(t.PrevV, t.V)

	n := t.NY
	cp := t.Density * t.H / dt
	u, v, s := t.U, t.V, t.S

	for iter := 0; iter < iters; iter++ {
		for i := 1; i < t.NX-1; i++ {
			for j := 1; j < t.NY-1; j++ {
				center := i*n + j
				if t.CellType[center] != Fluid {
					continue
				}

				left, right := center-n, center+n
				bottom, top := center-1, center+1

				sx0, sx1 := s[left], s[right]
				sy0, sy1 := s[bottom], s[top]
				sSum := sx0 + sx1 + sy0 + sy1
				if sSum == 0 {
					continue
				}

				div := u[right] - u[center] + v[top] - v[center]

				if t.RestDensity > 0 && compensateDrift {
					const k = 1.0
					compression := t.ParticleDensity[center] - t.RestDensity
					if compression > 0 {
						div -= k * compression
					}
				}

				p := -div / sSum * overRelaxation
				t.P[center] += cp * p

				u[center] -= sx0 * p
				u[right] += sx1 * p
				v[center] -= sy0 * p
				v[top] += sy1 * p
			}
		}
	}
}
