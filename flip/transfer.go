package flip

import (
	"math"

	"github.com/phil-mansfield/flipascii/interpolate"
)

// classifyCells rebuilds CellType from S and the current particle positions.
func (t *Tank) classifyCells() {
	for i := range t.CellType {
		if t.S[i] == 0 {
			t.CellType[i] = Solid
		} else {
			t.CellType[i] = Air
		}
	}

	for i := 0; i < t.NumParticles; i++ {
		xi := clampInt(int(math.Floor(t.Pos[2*i]*t.InvH)), 0, t.NX-1)
		yi := clampInt(int(math.Floor(t.Pos[2*i+1]*t.InvH)), 0, t.NY-1)
		idx := t.Idx(xi, yi)
		if t.CellType[idx] == Air {
			t.CellType[idx] = Fluid
		}
	}
}

// TransferToGrid reclassifies every cell and scatters particle velocities
// onto the staggered grid. Faces touching a solid cell keep the velocity they
// had before the transfer.
func (t *Tank) TransferToGrid() {
	copy(t.PrevU, t.U)
	copy(t.PrevV, t.V)
	zero(t.DU)
	zero(t.DV)
	zero(t.U)
	zero(t.V)

	t.classifyCells()

	for i := 0; i < t.NumParticles; i++ {
		x, y := t.Pos[2*i], t.Pos[2*i+1]
		t.uIntr.Splat(t.U, t.DU, x, y, t.Vel[2*i])
		t.vIntr.Splat(t.V, t.DV, x, y, t.Vel[2*i+1])
	}

	for i := range t.U {
		if t.DU[i] > 0 {
			t.U[i] /= t.DU[i]
		}
		if t.DV[i] > 0 {
			t.V[i] /= t.DV[i]
		}
	}

	n := t.NY
	for i := 0; i < t.NX; i++ {
		for j := 0; j < t.NY; j++ {
			idx := i*n + j
			solid := t.CellType[idx] == Solid
			if solid || (i > 0 && t.CellType[idx-n] == Solid) {
				t.U[idx] = t.PrevU[idx]
			}
			if solid || (j > 0 && t.CellType[idx-1] == Solid) {
				t.V[idx] = t.PrevV[idx]
			}
		}
	}
}

// TransferToParticles updates particle velocities from the grid, blending a
// PIC velocity (the interpolated grid value) with a FLIP velocity (the old
// particle velocity plus the change the grid went through during the
// projection). Faces with air on both sides have no meaningful velocity and
// are left out of the average.
func (t *Tank) TransferToParticles(flipRatio float64) {
	t.gather(&t.uIntr, t.U, t.PrevU, t.NY, 0, flipRatio)
	t.gather(&t.vIntr, t.V, t.PrevV, 1, 1, flipRatio)
}

// gather transfers one velocity component. offset is the index distance to
// the cell on the other side of each face.
func (t *Tank) gather(
	intr *interpolate.Staggered, f, prevF []float64,
	offset, component int, flipRatio float64,
) {
	st := interpolate.Stencil{}

	for i := 0; i < t.NumParticles; i++ {
		intr.Locate(t.Pos[2*i], t.Pos[2*i+1], &st)

		var wSum, pic, corr float64
		for k := 0; k < 4; k++ {
			nr := st.Idx[k]
			if t.CellType[nr] == Air && t.CellType[nr-offset] == Air {
				continue
			}
			w := st.W[k]
			wSum += w
			pic += w * f[nr]
			corr += w * (f[nr] - prevF[nr])
		}

		if wSum > 0 {
			v := t.Vel[2*i+component]
			pic /= wSum
			corr /= wSum
			t.Vel[2*i+component] = (1-flipRatio)*pic + flipRatio*(v+corr)
		}
	}
}

func zero(xs []float64) {
	for i := range xs {
		xs[i] = 0
	}
}
