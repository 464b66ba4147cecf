package tilemap

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPadsRaggedRows(t *testing.T) {
	m := New(16, [][]int{{1}, {0, 0, 1}, {}})
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 3, m.Height())
	assert.Equal(t, [][]int{{1, 0, 0}, {0, 0, 1}, {0, 0, 0}}, m.Grid())
	assert.Equal(t, uint32(collision.DefaultLayer), m.Layer())
	assert.Equal(t, 55, m.Catalog().LastSlope())
}

func TestNewCopiesGrid(t *testing.T) {
	grid := [][]int{{0, 1}}
	m := New(32, grid)
	grid[0][0] = 1
	assert.Equal(t, TileEmpty, m.Tile(0, 0))

	out := m.Grid()
	out[0][1] = 0
	assert.Equal(t, TileSolid, m.Tile(1, 0))
}

func TestNewBadTileSize(t *testing.T) {
	assert.Equal(t, float64(common.TileSize), New(0, nil).TileSize())
	assert.Equal(t, float64(common.TileSize), New(-3, nil).TileSize())
}

func TestOptions(t *testing.T) {
	c := NewCatalog(map[int]TileDef{2: {0, 0, 1, 0, false}})
	m := NewEmpty(8, 2, 2, WithCatalog(c), WithLayer(4))
	assert.Same(t, c, m.Catalog())
	assert.Equal(t, uint32(4), m.Layer())

	// ids past the last slope of a custom catalog are solid
	assert.True(t, m.isFull(3))
	assert.True(t, m.isSlope(2))
}

func TestTileAndSetTile(t *testing.T) {
	m := NewEmpty(32, 3, 2)
	assert.True(t, m.SetTile(2, 1, 7))
	assert.Equal(t, 7, m.Tile(2, 1))

	assert.False(t, m.SetTile(3, 0, 1))
	assert.False(t, m.SetTile(-1, 0, 1))
	assert.Equal(t, TileEmpty, m.Tile(-1, 0))
	assert.Equal(t, TileEmpty, m.Tile(0, 5))

	var nilMap *Map
	assert.Equal(t, TileEmpty, nilMap.Tile(0, 0))
	assert.False(t, nilMap.SetTile(0, 0, 1))
	assert.Zero(t, nilMap.ColliderID())
}

func TestShapeAtAndCells(t *testing.T) {
	m := NewEmpty(32, 4, 3)
	idx := m.CellIndex(2, 1)
	assert.Equal(t, 6, idx)

	shape, ok := m.ShapeAt(idx)
	require.True(t, ok)
	assert.Equal(t, collision.ShapeBox, shape.Kind)
	assert.Equal(t, cp.Vector{X: 64, Y: 32}, shape.Offset)
	assert.Equal(t, cp.Vector{X: 32, Y: 32}, shape.Size)

	_, ok = m.ShapeAt(12)
	assert.False(t, ok)

	x, y := m.CellAt(cp.Vector{X: -1, Y: 95.9})
	assert.Equal(t, -1, x)
	assert.Equal(t, 2, y)
}

func TestMapIDsAreUnique(t *testing.T) {
	a := NewEmpty(32, 1, 1)
	b := NewEmpty(32, 1, 1)
	assert.NotEqual(t, a.ColliderID(), b.ColliderID())
}
