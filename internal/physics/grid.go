package physics

import "math"

// CellKey addresses one square cell of the grid.
type CellKey struct {
	X, Y int
}

// neighbourhood is the 3x3 block around a cell, own cell first.
var neighbourhood = [9]CellKey{
	{0, 0}, {-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// SpatialGrid is an unbounded uniform grid for broad-phase collision
// detection. It stores particle indices, which are only valid until the
// next rebuild.
//
// The cell size must be at least the largest collision distance (two max
// radii) so that every colliding pair lands in the same or adjacent cells.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cells       map[CellKey][]int
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[CellKey][]int),
	}
}

func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Clear empties every bucket but keeps their backing arrays for reuse.
func (g *SpatialGrid) Clear() {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
}

func (g *SpatialGrid) Key(x, y float64) CellKey {
	return CellKey{
		X: int(math.Floor(x * g.invCellSize)),
		Y: int(math.Floor(y * g.invCellSize)),
	}
}

func (g *SpatialGrid) Insert(index int, x, y float64) {
	k := g.Key(x, y)
	g.cells[k] = append(g.cells[k], index)
}

// QueryNeighbors appends to dst every index stored in the 3x3 block of
// cells around (x, y) and returns the extended slice. Order is unspecified.
func (g *SpatialGrid) QueryNeighbors(x, y float64, dst []int) []int {
	c := g.Key(x, y)
	for _, off := range neighbourhood {
		if bucket, ok := g.cells[CellKey{c.X + off.X, c.Y + off.Y}]; ok {
			dst = append(dst, bucket...)
		}
	}
	return dst
}

// Len returns the number of stored indices.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, bucket := range g.cells {
		n += len(bucket)
	}
	return n
}
