package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable Load reads when no path is given.
const EnvPath = "TILESLIDE_CONFIG"

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrBadDelta    = errors.New("config: step delta must be positive")
	ErrBadSlides   = errors.New("config: max slides must not be negative")
	ErrBadAngle    = errors.New("config: floor angle must be between 0 and 180 degrees")
	ErrBadSize     = errors.New("config: sizes must be positive")
	ErrBadMargin   = errors.New("config: safe margin must not be negative")
	ErrNoLevelName = errors.New("config: level name is empty")
)

type Config struct {
	Step   StepConfig   `yaml:"step"`
	Motion MotionConfig `yaml:"motion"`
	Player PlayerConfig `yaml:"player"`
	Level  LevelConfig  `yaml:"level"`
	Window WindowConfig `yaml:"window"`
}

type StepConfig struct {
	Delta float64 `yaml:"delta"`
	// Gravity is in pixels per second squared, along -up.
	Gravity float64 `yaml:"gravity"`
}

// MotionConfig holds the arguments passed to MoveAndSlideWithSnap.
type MotionConfig struct {
	MaxSlides        int     `yaml:"max_slides"`
	FloorMaxAngleDeg float64 `yaml:"floor_max_angle_deg"`
	StopOnSlope      bool    `yaml:"stop_on_slope"`
	InfiniteInertia  bool    `yaml:"infinite_inertia"`
	SafeMargin       float64 `yaml:"safe_margin"`
	Snap             Vec     `yaml:"snap"`
}

// FloorMaxAngle is FloorMaxAngleDeg in radians.
func (m MotionConfig) FloorMaxAngle() float64 {
	return m.FloorMaxAngleDeg * math.Pi / 180
}

type PlayerConfig struct {
	Speed        float64 `yaml:"speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	CoyoteFrames int     `yaml:"coyote_frames"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
}

type LevelConfig struct {
	Name string `yaml:"name"`
	// Layer is the collision layer bits of the tile map; zero keeps the
	// level's own setting.
	Layer uint32 `yaml:"layer"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Vector() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: bad default.yaml: %v", err))
	}
	return &cfg
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $TILESLIDE_CONFIG, and to the defaults alone when that is unset.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	switch {
	case c.Step.Delta <= 0 || math.IsNaN(c.Step.Delta) || math.IsInf(c.Step.Delta, 0):
		return ErrBadDelta
	case c.Motion.MaxSlides < 0:
		return ErrBadSlides
	case c.Motion.FloorMaxAngleDeg < 0 || c.Motion.FloorMaxAngleDeg > 180:
		return ErrBadAngle
	case c.Motion.SafeMargin < 0:
		return ErrBadMargin
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player %gx%g", ErrBadSize, c.Player.Width, c.Player.Height)
	case c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.Scale <= 0:
		return fmt.Errorf("%w: window %dx%d scale %d", ErrBadSize, c.Window.Width, c.Window.Height, c.Window.Scale)
	case c.Level.Name == "":
		return ErrNoLevelName
	}
	return nil
}
