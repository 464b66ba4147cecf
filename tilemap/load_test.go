package tilemap

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="2" nextobjectid="1">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="4">
  <tile id="2">
   <properties>
    <property name="collision" value="2"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="collision" width="3" height="2">
  <data encoding="csv">0,0,3,1,1,4</data>
 </layer>
</map>
`

func TestParseYAML(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    [][]int
		size    float64
		wantErr error
	}{
		{
			name: "rows",
			src:  "tile_size: 16\nrows: [[0, 2], [1, 1]]\n",
			want: [][]int{{0, 2}, {1, 1}},
			size: 16,
		},
		{
			name: "flat tiles",
			src:  "width: 3\ntiles: [0, 0, 1, 1, 1, 1]\n",
			want: [][]int{{0, 0, 1}, {1, 1, 1}},
			size: 32,
		},
		{
			name:    "ragged flat tiles",
			src:     "width: 4\ntiles: [0, 0, 1]\n",
			wantErr: ErrBadWidth,
		},
		{
			name:    "empty",
			src:     "tile_size: 8\n",
			wantErr: ErrNoTiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseYAML([]byte(tt.src))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Grid())
			assert.Equal(t, tt.size, m.TileSize())
		})
	}
}

func TestParseYAMLCatalog(t *testing.T) {
	src := `
rows: [[60]]
catalog:
  60: {x1: 0, y1: 1, x2: 1, y2: 0, solid: true}
`
	m, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 60, m.Catalog().LastSlope())
	_, ok := m.Catalog().Lookup(TileSlope45NE)
	assert.False(t, ok)

	m, err = ParseYAML([]byte(src + "extend_default: true\n"))
	require.NoError(t, err)
	_, ok = m.Catalog().Lookup(TileSlope45NE)
	assert.True(t, ok)
	def, ok := m.Catalog().Lookup(60)
	require.True(t, ok)
	assert.Equal(t, TileDef{X1: 0, Y1: 1, X2: 1, Y2: 0, Solid: true}, def)
}

func TestEncodeYAML(t *testing.T) {
	m := New(24, [][]int{{0, TileGoN}, {1, 1}}, WithLayer(4))
	data, err := EncodeYAML(m)
	require.NoError(t, err)

	back, err := LoadYAMLFS(fstest.MapFS{"map.yaml": {Data: data}}, "map.yaml")
	require.NoError(t, err)
	assert.Equal(t, m.Grid(), back.Grid())
	assert.Equal(t, 24.0, back.TileSize())
	assert.Equal(t, uint32(4), back.Layer())

	_, err = EncodeYAML(nil)
	assert.ErrorIs(t, err, ErrNoTiles)
}

func TestLoadYAMLMissing(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTMX(t *testing.T) {
	fsys := fstest.MapFS{"level.tmx": {Data: []byte(testTMX)}}

	m, err := LoadTMX(fsys, "level.tmx", "collision")
	require.NoError(t, err)
	assert.Equal(t, 16.0, m.TileSize())
	assert.Equal(t, [][]int{{0, 0, TileSlope45NE}, {1, 1, 4}}, m.Grid())

	_, err = LoadTMX(fsys, "level.tmx", "decor")
	assert.ErrorIs(t, err, ErrNoTiles)

	_, err = LoadTMX(fsys, "missing.tmx", "collision")
	assert.Error(t, err)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	tmx := filepath.Join(dir, "level.tmx")
	yml := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(tmx, []byte(testTMX), 0o644))
	require.NoError(t, os.WriteFile(yml, []byte("rows: [[1, 0]]\n"), 0o644))

	m, err := Load(tmx, "collision")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width())

	m, err = Load(yml, "")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Width())

	assert.True(t, IsMapFile("a/b/LEVEL.YML"))
	assert.False(t, IsMapFile("bob.tengo"))
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: [[1]]\n"), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the map file")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	var nilWatcher *Watcher
	assert.NoError(t, nilWatcher.Close())
}
