package tilemap

import (
	"fmt"
	"io/fs"
	"log"
	"strconv"

	"github.com/lafriks/go-tiled"
)

// CollisionProperty is the tileset tile property that overrides a tile's id.
const CollisionProperty = "collision"

// LoadTMX builds a map from the named tile layer of a Tiled file. A tileset
// tile's "collision" property sets the id; otherwise the local tile id plus
// one is used so that tile 0 of the tileset is fully solid.
func LoadTMX(fsys fs.FS, tmxPath, layerName string, opts ...Option) (*Map, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("tilemap: load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth != levelMap.TileHeight {
		log.Printf("tilemap: %s has %dx%d tiles, using width as cell size", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	for _, layer := range levelMap.Layers {
		if layer.Name != layerName {
			continue
		}
		grid := make([][]int, levelMap.Height)
		for y := 0; y < levelMap.Height; y++ {
			grid[y] = make([]int, levelMap.Width)
			for x := 0; x < levelMap.Width; x++ {
				idx := y*levelMap.Width + x
				if idx >= len(layer.Tiles) {
					continue
				}
				tile := layer.Tiles[idx]
				if tile == nil || tile.IsNil() {
					continue
				}
				grid[y][x] = tileID(tile)
			}
		}
		return New(float64(levelMap.TileWidth), grid, opts...), nil
	}
	return nil, fmt.Errorf("tilemap: %s: %w: no layer %q", tmxPath, ErrNoTiles, layerName)
}

func tileID(tile *tiled.LayerTile) int {
	id := int(tile.ID) + 1
	if tile.Tileset == nil {
		return id
	}
	tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID)
	if err != nil {
		return id
	}
	raw := tilesetTile.Properties.GetString(CollisionProperty)
	if raw == "" {
		return id
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return id
	}
	return v
}
