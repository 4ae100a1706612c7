package flip

import (
	"math"

	"github.com/phil-mansfield/flipascii/geom"
)

// particleHash is a uniform bucket grid over particle positions. It is
// rebuilt from scratch by counting sort: after rebuild, the particles in
// bucket b are ids[first[b]:first[b+1]].
type particleHash struct {
	geom.Grid
	invSpacing float64

	count []int32
	first []int32
	ids   []int32
}

func (ph *particleHash) init(width, height, radius float64, maxParticles int) {
	ph.invSpacing = 1 / (2.2 * radius)
	nx := int(math.Floor(width*ph.invSpacing)) + 1
	ny := int(math.Floor(height*ph.invSpacing)) + 1
	ph.Init(nx, ny)

	ph.count = make([]int32, ph.Cells)
	ph.first = make([]int32, ph.Cells+1)
	ph.ids = make([]int32, maxParticles)
}

// bucket returns the unclamped bucket coordinates of a position.
func (ph *particleHash) bucket(x, y float64) (int, int) {
	return int(math.Floor(x * ph.invSpacing)), int(math.Floor(y * ph.invSpacing))
}

func (ph *particleHash) bucketIdx(x, y float64) int {
	return ph.Idx(ph.Clamp(ph.bucket(x, y)))
}

func (ph *particleHash) rebuild(pos []float64, n int) {
	for i := range ph.count {
		ph.count[i] = 0
	}

	for i := 0; i < n; i++ {
		ph.count[ph.bucketIdx(pos[2*i], pos[2*i+1])]++
	}

	var first int32
	for i := range ph.count {
		first += ph.count[i]
		ph.first[i] = first
	}
	ph.first[ph.Cells] = first

	for i := 0; i < n; i++ {
		b := ph.bucketIdx(pos[2*i], pos[2*i+1])
		ph.first[b]--
		ph.ids[ph.first[b]] = int32(i)
	}
}

// neighborhood returns the range of buckets adjacent to the bucket holding
// (x, y). The range is empty if the position is far enough outside the grid.
func (ph *particleHash) neighborhood(x, y float64) (x0, x1, y0, y1 int) {
	xi, yi := ph.bucket(x, y)
	x0 = maxInt(xi-1, 0)
	y0 = maxInt(yi-1, 0)
	x1 = minInt(xi+1, ph.NX-1)
	y1 = minInt(yi+1, ph.NY-1)
	return x0, x1, y0, y1
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}
