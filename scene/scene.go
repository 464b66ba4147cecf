package scene

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/config"
	"github.com/milk9111/tileslide/ecs"
	"github.com/milk9111/tileslide/ecs/component"
	"github.com/milk9111/tileslide/ecs/system"
	"github.com/milk9111/tileslide/levels"
	"github.com/milk9111/tileslide/tilemap"
	"github.com/milk9111/tileslide/world"
)

// Scene owns a loaded level: its collision backends, the entity world and
// the systems that step it.
type Scene struct {
	Config *config.Config
	Level  *levels.Level

	ECS       *ecs.World
	Scheduler *ecs.Scheduler
	Tiles     *world.TileBackend
	Bodies    *world.BodySpace
	Props     *world.PropSpace
	Collision *world.World

	Player    ecs.Entity
	Platforms []ecs.Entity

	platforms *system.PlatformSystem
}

// Load reads the named level and builds a scene from it.
func Load(cfg *config.Config, name string) (*Scene, error) {
	lvl, err := levels.LoadLevel(name)
	if err != nil {
		return nil, err
	}
	return New(cfg, lvl, nil)
}

// New builds a scene from lvl. load resolves platform scripts; nil uses the
// levels package.
func New(cfg *config.Config, lvl *levels.Level, load system.ScriptLoader) (*Scene, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := lvl.Map()
	if err != nil {
		return nil, fmt.Errorf("scene: build map: %w", err)
	}
	if cfg.Level.Layer != 0 {
		m.SetLayer(cfg.Level.Layer)
	}

	ts := m.TileSize()
	s := &Scene{
		Config: cfg,
		Level:  lvl,
		ECS:    ecs.NewWorld(),
		Tiles:  world.NewTileBackend(m),
		Bodies: world.NewBodySpace(),
		Props:  world.NewPropSpace(int(float64(m.Width())*ts), int(float64(m.Height())*ts), int(ts)),
	}
	s.Collision = world.New(s.Tiles, s.Bodies, s.Props)

	for _, p := range lvl.Props {
		s.Props.Add(p.X, p.Y, p.Width, p.Height)
	}
	for i, p := range lvl.Platforms {
		if err := s.addPlatform(p); err != nil {
			return nil, fmt.Errorf("scene: platform %d: %w", i, err)
		}
	}
	if err := s.addPlayer(cp.Vector{X: lvl.Spawn.X, Y: lvl.Spawn.Y}); err != nil {
		return nil, fmt.Errorf("scene: player: %w", err)
	}

	s.platforms = system.NewPlatformSystem(cfg.Step.Delta, s.Bodies, load)
	s.Scheduler = ecs.NewScheduler(
		s.platforms,
		system.NewPlayerControllerSystem(),
		system.NewKinematicSystem(cfg.Step.Delta),
	)
	log.Printf("Scene: loaded %q (%dx%d tiles, %d platforms, %d props)", lvl.Name, m.Width(), m.Height(), len(lvl.Platforms), len(lvl.Props))
	return s, nil
}

func (s *Scene) addPlatform(p levels.PlatformSpec) error {
	shape := collision.Box(0, 0, p.Width, p.Height)
	var b *body.Body
	if p.Kinematic {
		// Platforms are moved by PlatformSystem, not by the resolver.
		b = body.NewKinematic(p.Position(), nil, shape)
	} else {
		b = body.NewStatic(p.Position(), shape)
	}
	s.Bodies.Add(b)

	e := ecs.CreateEntity(s.ECS)
	vel := cp.Vector{X: p.Velocity.X, Y: p.Velocity.Y}
	if err := ecs.Add(s.ECS, e, component.PlatformComponent.Kind(), &component.Platform{Body: b, Velocity: vel, Script: p.Script}); err != nil {
		return err
	}
	if err := ecs.Add(s.ECS, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y}); err != nil {
		return err
	}
	s.Platforms = append(s.Platforms, e)
	return nil
}

func (s *Scene) addPlayer(spawn cp.Vector) error {
	cfg := s.Config
	b := body.NewKinematic(spawn, s.Collision, collision.Box(0, 0, cfg.Player.Width, cfg.Player.Height))
	b.SetSafeMargin(cfg.Motion.SafeMargin)
	b.SetStepDelta(cfg.Step.Delta)

	e := ecs.CreateEntity(s.ECS)
	kb := &component.KinematicBody{
		Body:            b,
		Gravity:         cfg.Step.Gravity,
		Snap:            cfg.Motion.Snap.Vector(),
		Up:              cp.Vector{Y: -1},
		MaxSlides:       cfg.Motion.MaxSlides,
		FloorMaxAngle:   cfg.Motion.FloorMaxAngle(),
		StopOnSlope:     cfg.Motion.StopOnSlope,
		InfiniteInertia: cfg.Motion.InfiniteInertia,
	}
	player := &component.Player{
		MoveSpeed:    cfg.Player.Speed,
		JumpSpeed:    cfg.Player.JumpSpeed,
		CoyoteFrames: cfg.Player.CoyoteFrames,
	}
	for _, err := range []error{
		ecs.Add(s.ECS, e, component.KinematicBodyComponent.Kind(), kb),
		ecs.Add(s.ECS, e, component.TransformComponent.Kind(), &component.Transform{X: spawn.X, Y: spawn.Y}),
		ecs.Add(s.ECS, e, component.PlayerComponent.Kind(), player),
		ecs.Add(s.ECS, e, component.InputComponent.Kind(), &component.Input{}),
	} {
		if err != nil {
			return err
		}
	}
	s.Player = e
	return nil
}

// Step feeds in to the player, runs one fixed step and returns the contact
// events it produced.
func (s *Scene) Step(in component.Input) []ecs.ContactEvent {
	if s == nil {
		return nil
	}
	if cur, ok := ecs.Get(s.ECS, s.Player, component.InputComponent.Kind()); ok {
		*cur = in
	}
	s.Scheduler.Update(s.ECS)
	return s.ECS.Events().Drain()
}

// PlayerBody returns the body the player controls.
func (s *Scene) PlayerBody() *body.Body {
	if s == nil {
		return nil
	}
	kb, ok := ecs.Get(s.ECS, s.Player, component.KinematicBodyComponent.Kind())
	if !ok {
		return nil
	}
	return kb.Body
}

// Map returns the tile map currently in use.
func (s *Scene) Map() *tilemap.Map {
	if s == nil {
		return nil
	}
	return s.Tiles.Map()
}

// ReplaceMap swaps in a new grid while keeping bodies and props where they
// are, e.g. after the level file changed on disk.
func (s *Scene) ReplaceMap(m *tilemap.Map) {
	if s == nil || m == nil {
		return
	}
	if s.Config.Level.Layer != 0 {
		m.SetLayer(s.Config.Level.Layer)
	}
	s.Tiles.SetMap(m)
	for _, e := range s.Platforms {
		s.platforms.Forget(e)
	}
	log.Printf("Scene: map replaced (%dx%d tiles)", m.Width(), m.Height())
}

// PlatformBodies returns the bodies of every platform in the scene.
func (s *Scene) PlatformBodies() []*body.Body {
	if s == nil {
		return nil
	}
	out := make([]*body.Body, 0, len(s.Platforms))
	ecs.ForEach(s.ECS, component.PlatformComponent.Kind(), func(_ ecs.Entity, p *component.Platform) {
		if p.Body != nil {
			out = append(out, p.Body)
		}
	})
	return out
}
