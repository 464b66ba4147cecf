package tilemap

import (
	"log"
	"math"
	"sort"

	"github.com/milk9111/tileslide/common"
)

const (
	// TileEmpty never collides.
	TileEmpty = 0
	// TileSolid always collides as a full cell.
	TileSolid = 1
)

// TileDef is a line from (X1,Y1) to (X2,Y2) in unit cell coordinates. The
// side to the right of the line direction (screen coordinates) is behind it.
// Solid means the area behind the line is filled; otherwise the line only
// blocks motion that crosses it from the front.
type TileDef struct {
	X1    float64 `yaml:"x1"`
	Y1    float64 `yaml:"y1"`
	X2    float64 `yaml:"x2"`
	Y2    float64 `yaml:"y2"`
	Solid bool    `yaml:"solid"`
}

func (d TileDef) degenerate() bool {
	return math.Hypot(d.X2-d.X1, d.Y2-d.Y1) <= common.Epsilon
}

// Catalog maps tile ids to slope definitions. It is immutable once built.
type Catalog struct {
	defs      map[int]TileDef
	lastSlope int
}

// NewCatalog validates defs and derives the last slope id. Reserved ids (0
// and 1), negative ids and zero-length lines are dropped; dropped ids behave
// as empty tiles.
func NewCatalog(defs map[int]TileDef) *Catalog {
	c := &Catalog{defs: make(map[int]TileDef, len(defs))}
	for id, def := range defs {
		if id <= TileSolid {
			log.Printf("tilemap: catalog id %d is reserved, ignoring", id)
			continue
		}
		if def.degenerate() {
			log.Printf("tilemap: catalog id %d has a zero-length line, ignoring", id)
			continue
		}
		c.defs[id] = def
		if id > c.lastSlope {
			c.lastSlope = id
		}
	}
	return c
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id int) (TileDef, bool) {
	if c == nil {
		return TileDef{}, false
	}
	def, ok := c.defs[id]
	return def, ok
}

// LastSlope is the highest slope id. Ids above it are fully solid.
func (c *Catalog) LastSlope() int {
	if c == nil {
		return TileSolid
	}
	if c.lastSlope < TileSolid {
		return TileSolid
	}
	return c.lastSlope
}

// IDs returns the catalog ids in ascending order.
func (c *Catalog) IDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}
