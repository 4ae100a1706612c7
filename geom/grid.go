package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 2D grid. Cells are stored column by column: the y index varies fastest, so
// the cell (i, j) lives at i*NY + j.
type Grid struct {
	NX, NY int
	Cells  int
}

// CellBounds represents a bounding box aligned to grid cells.
type CellBounds struct {
	Origin, Width [2]int
}

// Init initializes a Grid instance.
func (g *Grid) Init(nx, ny int) {
	g.NX, g.NY = nx, ny
	g.Cells = nx * ny
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(i, j int) int {
	return i*g.NY + j
}

// Coords returns the i, j coordinates of a cell from its grid index.
func (g *Grid) Coords(idx int) (i, j int) {
	return idx / g.NY, idx % g.NY
}

// Wall returns true for the cells which make up the left, right and bottom
// walls of a tank. The top is left open.
func (g *Grid) Wall(i, j int) bool {
	return i == 0 || i == g.NX-1 || j == 0
}

// Clamp returns the closest valid coordinates to (i, j).
func (g *Grid) Clamp(i, j int) (int, int) {
	return clamp(i, 0, g.NX-1), clamp(j, 0, g.NY-1)
}

// Crop returns the window of cells left over after removing cx columns from
// both sides of the grid and cy rows from its top and bottom. The lowest row
// of the window sits one above the bottom crop, since row 0 is a wall.
func (g *Grid) Crop(cx, cy int) CellBounds {
	cb := CellBounds{}
	cb.Origin = [2]int{cx, cy + 1}
	cb.Width = [2]int{g.NX - 2*cx, g.NY - 2*cy}
	for k := 0; k < 2; k++ {
		if cb.Width[k] < 0 {
			cb.Width[k] = 0
		}
	}
	return cb
}

// Contains returns true if the cell (i, j) is inside the bounding box.
func (cb *CellBounds) Contains(i, j int) bool {
	return i >= cb.Origin[0] && j >= cb.Origin[1] &&
		i < cb.Origin[0]+cb.Width[0] && j < cb.Origin[1]+cb.Width[1]
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}
