/*package interpolate locates points on staggered 2D grids and computes the
bilinear weights used to move values between particles and grid nodes.
*/
package interpolate

import (
	"math"
)

// Stencil holds the four grid nodes surrounding a point along with their
// bilinear weights. Nodes are ordered (x0, y0), (x1, y0), (x1, y1), (x0, y1).
type Stencil struct {
	Idx [4]int
	W   [4]float64
}

// Staggered is a bilinear interpolator for a grid whose nodes are offset
// from the cell corners by (dx, dy). A horizontal velocity stored on the
// left face of each cell has an offset of (0, h/2), a vertical velocity on
// the bottom face (h/2, 0) and a cell-centered quantity (h/2, h/2).
type Staggered struct {
	nx, ny     int
	h, invH    float64
	dx, dy     float64
	minX, maxX float64
	minY, maxY float64
}

// Init initializes a Staggered instance.
func (s *Staggered) Init(nx, ny int, h, dx, dy float64) {
	s.nx, s.ny = nx, ny
	s.h, s.invH = h, 1/h
	s.dx, s.dy = dx, dy
	s.minX, s.maxX = h, float64(nx-1)*h
	s.minY, s.maxY = h, float64(ny-1)*h
}

// Locate writes the stencil around (x, y) into st. Points are first clamped
// to the interior of the grid (one cell in from every side), so every node in
// the stencil is a valid index and no node lies on the outermost column or
// row.
func (s *Staggered) Locate(x, y float64, st *Stencil) {
	x = clamp(x, s.minX, s.maxX)
	y = clamp(y, s.minY, s.maxY)

	x0 := minInt(int(math.Floor((x-s.dx)*s.invH)), s.nx-2)
	tx := (x - s.dx - float64(x0)*s.h) * s.invH
	x1 := minInt(x0+1, s.nx-2)

	y0 := minInt(int(math.Floor((y-s.dy)*s.invH)), s.ny-2)
	ty := (y - s.dy - float64(y0)*s.h) * s.invH
	y1 := minInt(y0+1, s.ny-2)

	sx, sy := 1-tx, 1-ty

	st.W[0], st.W[1], st.W[2], st.W[3] = sx*sy, tx*sy, tx*ty, sx*ty

	n := s.ny
	st.Idx[0], st.Idx[1] = x0*n+y0, x1*n+y0
	st.Idx[2], st.Idx[3] = x1*n+y1, x0*n+y1
}

// Eval returns the interpolated value of vals at (x, y).
func (s *Staggered) Eval(vals []float64, x, y float64) float64 {
	st := Stencil{}
	s.Locate(x, y, &st)
	sum := 0.0
	for k := 0; k < 4; k++ {
		sum += st.W[k] * vals[st.Idx[k]]
	}
	return sum
}

// EvalAll evaluates the interpolator at every point of pos, which holds
// interleaved (x, y) pairs. If an output array is given, the output is
// written to that array (the array is still returned as a convenience).
func (s *Staggered) EvalAll(vals, pos []float64, out ...[]float64) []float64 {
	if len(pos)%2 != 0 {
		panic("Position slice has an odd length.")
	}
	n := len(pos) / 2
	if len(out) == 0 {
		out = [][]float64{make([]float64, n)}
	}
	for i := 0; i < n; i++ {
		out[0][i] = s.Eval(vals, pos[2*i], pos[2*i+1])
	}
	return out[0]
}

// Splat adds val to the four nodes around (x, y), weighting each by its
// bilinear weight. If weights is non-nil, the weights themselves are
// accumulated there.
func (s *Staggered) Splat(vals, weights []float64, x, y, val float64) {
	st := Stencil{}
	s.Locate(x, y, &st)
	for k := 0; k < 4; k++ {
		vals[st.Idx[k]] += val * st.W[k]
		if weights != nil {
			weights[st.Idx[k]] += st.W[k]
		}
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}
