package tilemap

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
)

// Map is a rectangular grid of tile ids with square cells. It holds no
// derived state, so SetTile takes effect on the next trace. The grid must not
// be mutated while a trace on the same map is running.
type Map struct {
	id       uint64
	tileSize float64
	width    int
	height   int
	data     [][]int
	catalog  *Catalog
	layer    uint32
}

type Option func(*Map)

// WithCatalog replaces the default slope catalog.
func WithCatalog(c *Catalog) Option {
	return func(m *Map) {
		if c != nil {
			m.catalog = c
		}
	}
}

// WithLayer sets the collision layer bits the map occupies.
func WithLayer(layer uint32) Option {
	return func(m *Map) {
		m.layer = layer
	}
}

// New copies grid (row-major, grid[y][x]) into a new map. Ragged rows are
// padded with empty tiles and a non-positive tileSize falls back to the default.
func New(tileSize float64, grid [][]int, opts ...Option) *Map {
	if tileSize <= 0 || math.IsNaN(tileSize) || math.IsInf(tileSize, 0) {
		tileSize = common.TileSize
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	data := make([][]int, len(grid))
	for y, row := range grid {
		data[y] = make([]int, width)
		copy(data[y], row)
	}

	m := &Map{
		id:       collision.NewObjectID(),
		tileSize: tileSize,
		width:    width,
		height:   len(grid),
		data:     data,
		layer:    collision.DefaultLayer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.catalog == nil {
		m.catalog = DefaultCatalog()
	}
	return m
}

// NewEmpty returns a map of the given size with every tile empty.
func NewEmpty(tileSize float64, width, height int, opts ...Option) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
	}
	return New(tileSize, grid, opts...)
}

func (m *Map) ColliderID() uint64 {
	if m == nil {
		return 0
	}
	return m.id
}

func (m *Map) TileSize() float64 { return m.tileSize }
func (m *Map) Width() int        { return m.width }
func (m *Map) Height() int       { return m.height }
func (m *Map) Catalog() *Catalog { return m.catalog }
func (m *Map) Layer() uint32     { return m.layer }

func (m *Map) SetLayer(layer uint32) {
	if m == nil {
		return
	}
	m.layer = layer
}

// Tile returns the id at cell (x, y); cells outside the grid are empty.
func (m *Map) Tile(x, y int) int {
	if m == nil || x < 0 || y < 0 || x >= m.width || y >= m.height {
		return TileEmpty
	}
	return m.data[y][x]
}

// SetTile writes id at cell (x, y) and reports whether the cell exists.
func (m *Map) SetTile(x, y, id int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	m.data[y][x] = id
	return true
}

// TileAtIndex returns the id at a linear cell index.
func (m *Map) TileAtIndex(index int) int {
	if m == nil || m.width == 0 || index < 0 {
		return TileEmpty
	}
	return m.Tile(index%m.width, index/m.width)
}

// Grid returns a copy of the tile ids.
func (m *Map) Grid() [][]int {
	if m == nil {
		return nil
	}
	out := make([][]int, m.height)
	for y := range m.data {
		out[y] = append([]int(nil), m.data[y]...)
	}
	return out
}

// ShapeAt resolves a linear cell index to the cell's box in world coordinates.
func (m *Map) ShapeAt(index int) (collision.Shape, bool) {
	if m == nil || m.width == 0 || index < 0 || index >= m.width*m.height {
		return collision.Shape{}, false
	}
	x := index % m.width
	y := index / m.width
	return collision.Box(float64(x)*m.tileSize, float64(y)*m.tileSize, m.tileSize, m.tileSize), true
}

// CellIndex returns the linear index of cell (x, y).
func (m *Map) CellIndex(x, y int) int {
	return y*m.width + x
}

// CellAt returns the cell containing the world point p.
func (m *Map) CellAt(p cp.Vector) (int, int) {
	return floorDiv(p.X, m.tileSize), floorDiv(p.Y, m.tileSize)
}

func (m *Map) isFull(t int) bool {
	return t == TileSolid || t > m.catalog.LastSlope()
}

func (m *Map) isSlope(t int) bool {
	return t > TileSolid && t <= m.catalog.LastSlope()
}

func floorDiv(v, size float64) int {
	return int(math.Floor(v / size))
}

func ceilDiv(v, size float64) int {
	return int(math.Ceil(v / size))
}
