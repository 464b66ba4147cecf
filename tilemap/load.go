package tilemap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoTiles  = errors.New("tilemap: map has no tiles")
	ErrBadWidth = errors.New("tilemap: tile count is not a multiple of width")
)

// Spec is the on-disk form of a map. Either Rows or Width+Tiles is set.
type Spec struct {
	TileSize float64 `yaml:"tile_size"`
	Layer    uint32  `yaml:"layer,omitempty"`
	Rows     [][]int `yaml:"rows,omitempty"`
	Width    int     `yaml:"width,omitempty"`
	Tiles    []int   `yaml:"tiles,omitempty"`
	// Catalog replaces the built-in slope table unless ExtendDefault is set.
	Catalog       map[int]TileDef `yaml:"catalog,omitempty"`
	ExtendDefault bool            `yaml:"extend_default,omitempty"`
}

// Grid returns the rows described by the spec.
func (s Spec) Grid() ([][]int, error) {
	if len(s.Rows) > 0 {
		return s.Rows, nil
	}
	if len(s.Tiles) == 0 || s.Width <= 0 {
		return nil, ErrNoTiles
	}
	if len(s.Tiles)%s.Width != 0 {
		return nil, fmt.Errorf("%w: %d tiles, width %d", ErrBadWidth, len(s.Tiles), s.Width)
	}
	rows := make([][]int, 0, len(s.Tiles)/s.Width)
	for i := 0; i < len(s.Tiles); i += s.Width {
		rows = append(rows, s.Tiles[i:i+s.Width])
	}
	return rows, nil
}

// Build turns the spec into a map.
func (s Spec) Build() (*Map, error) {
	grid, err := s.Grid()
	if err != nil {
		return nil, err
	}
	var opts []Option
	if s.Layer != 0 {
		opts = append(opts, WithLayer(s.Layer))
	}
	if len(s.Catalog) > 0 {
		defs := make(map[int]TileDef, len(s.Catalog))
		if s.ExtendDefault {
			def := DefaultCatalog()
			for _, id := range def.IDs() {
				defs[id], _ = def.Lookup(id)
			}
		}
		for id, d := range s.Catalog {
			defs[id] = d
		}
		opts = append(opts, WithCatalog(NewCatalog(defs)))
	}
	return New(s.TileSize, grid, opts...), nil
}

// ParseYAML decodes a map from YAML.
func ParseYAML(data []byte) (*Map, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tilemap: unmarshal: %w", err)
	}
	return spec.Build()
}

// LoadYAML reads a YAML map from disk.
func LoadYAML(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", path, err)
	}
	m, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", path, err)
	}
	return m, nil
}

// LoadYAMLFS reads a YAML map from fsys, e.g. an embed.FS.
func LoadYAMLFS(fsys fs.FS, path string) (*Map, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", path, err)
	}
	m, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", path, err)
	}
	return m, nil
}

// EncodeYAML writes m back out in row form.
func EncodeYAML(m *Map) ([]byte, error) {
	if m == nil {
		return nil, ErrNoTiles
	}
	spec := Spec{TileSize: m.tileSize, Layer: m.layer, Rows: m.Grid()}
	return yaml.Marshal(spec)
}
