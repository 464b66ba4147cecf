package levels

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/tilemap"
	"gopkg.in/yaml.v3"
)

// Dir is where levels are looked up on disk before falling back to the
// embedded copies, so edited files win during development.
const Dir = "levels"

//go:embed *.yaml
var LevelsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

var ErrBadSize = errors.New("levels: width and height must be positive")

// Level is a tile map plus the bodies placed on it.
type Level struct {
	tilemap.Spec `yaml:",inline"`

	Name      string         `yaml:"name"`
	Spawn     Point          `yaml:"spawn"`
	Platforms []PlatformSpec `yaml:"platforms,omitempty"`
	Props     []PropSpec     `yaml:"props,omitempty"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlatformSpec places a moving platform. Without a script it moves at a
// constant velocity.
type PlatformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Velocity Point   `yaml:"velocity"`
	Script   string  `yaml:"script,omitempty"`
	// Kinematic platforms report their scripted velocity to riders; static
	// ones report Velocity as a constant.
	Kinematic bool `yaml:"kinematic,omitempty"`
}

func (p PlatformSpec) Position() cp.Vector { return cp.Vector{X: p.X, Y: p.Y} }

// PropSpec places an axis-aligned solid box.
type PropSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Load returns the raw level file, preferring the copy on disk.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(DiskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

// LoadScript returns a platform script, preferring the copy on disk.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(DiskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// LoadLevel reads and decodes a level by name.
func LoadLevel(name string) (*Level, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return lvl, nil
}

// Parse decodes a level and checks the sizes of its bodies.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	for i, p := range lvl.Platforms {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("%w: platform %d", ErrBadSize, i)
		}
	}
	for i, p := range lvl.Props {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("%w: prop %d", ErrBadSize, i)
		}
	}
	return &lvl, nil
}

// Map builds the level's tile map.
func (l *Level) Map() (*tilemap.Map, error) {
	if l == nil {
		return nil, tilemap.ErrNoTiles
	}
	return l.Spec.Build()
}

// DiskPath maps a level-relative name to its path on disk.
func DiskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

func cleanLevelPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := cleanLevelPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return "scripts/" + s
}
