package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridIdx(t *testing.T) {
	g := newGrid(5, 3)

	seen := make([]bool, g.Cells)
	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			idx := g.Idx(i, j)
			assert.False(t, seen[idx], "index %d used twice", idx)
			seen[idx] = true

			ci, cj := g.Coords(idx)
			assert.Equal(t, i, ci)
			assert.Equal(t, j, cj)
		}
	}
	// the y index varies fastest
	assert.Equal(t, 1, g.Idx(0, 1))
	assert.Equal(t, g.NY, g.Idx(1, 0))
}

func TestGridWall(t *testing.T) {
	g := newGrid(4, 3)
	assert.True(t, g.Wall(0, 1))
	assert.True(t, g.Wall(3, 1))
	assert.True(t, g.Wall(2, 0))
	assert.False(t, g.Wall(1, 2), "the top of the tank is open")
	assert.False(t, g.Wall(2, 1))
}

func TestGridCrop(t *testing.T) {
	g := newGrid(10, 8)
	cb := g.Crop(1, 2)

	assert.Equal(t, [2]int{1, 3}, cb.Origin)
	assert.Equal(t, [2]int{8, 4}, cb.Width)
	assert.True(t, cb.Contains(1, 3))
	assert.True(t, cb.Contains(8, 6))
	assert.False(t, cb.Contains(0, 3))
	assert.False(t, cb.Contains(1, 7))

	tiny := newGrid(1, 1).Crop(1, 2)
	assert.Equal(t, [2]int{0, 0}, tiny.Width)
}

func newGrid(nx, ny int) *Grid {
	g := &Grid{}
	g.Init(nx, ny)
	return g
}
