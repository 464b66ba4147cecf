package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/tileslide/config"
	"github.com/milk9111/tileslide/ecs"
	"github.com/milk9111/tileslide/levels"
	"github.com/milk9111/tileslide/scene"
	"github.com/milk9111/tileslide/tilemap"
)

// Options are the demo's command line switches.
type Options struct {
	// MapPath replaces the level's tiles with a YAML or TMX map file.
	MapPath  string
	MapLayer string
	Debug    bool
	Watch    bool
}

type Game struct {
	cfg   *config.Config
	opts  Options
	scene *scene.Scene
	input *Input

	watcher *tilemap.Watcher
	debug   bool
	frames  int
	last    string
}

func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	sc, err := scene.Load(cfg, cfg.Level.Name)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:   cfg,
		opts:  opts,
		scene: sc,
		input: NewInput(),
		debug: opts.Debug,
	}
	if opts.MapPath != "" {
		m, err := tilemap.Load(opts.MapPath, opts.MapLayer)
		if err != nil {
			return nil, err
		}
		sc.ReplaceMap(m)
	}
	if opts.Watch {
		dir := levels.Dir
		if opts.MapPath != "" {
			dir = filepath.Dir(opts.MapPath)
		}
		if _, err := os.Stat(dir); err != nil {
			log.Printf("Game: not watching %s: %v", dir, err)
		} else if g.watcher, err = tilemap.NewWatcher(dir); err != nil {
			log.Printf("Game: watch %s: %v", dir, err)
		}
	}
	return g, nil
}

// reloadMap reads the map behind path again and swaps it into the scene.
func (g *Game) reloadMap(path string) error {
	if g.opts.MapPath != "" {
		if filepath.Base(path) != filepath.Base(g.opts.MapPath) {
			return nil
		}
		m, err := tilemap.Load(g.opts.MapPath, g.opts.MapLayer)
		if err != nil {
			return err
		}
		g.scene.ReplaceMap(m)
		return nil
	}

	if filepath.Base(path) != filepath.Base(g.cfg.Level.Name) {
		return nil
	}
	lvl, err := levels.LoadLevel(g.cfg.Level.Name)
	if err != nil {
		return err
	}
	m, err := lvl.Map()
	if err != nil {
		return err
	}
	g.scene.ReplaceMap(m)
	return nil
}

func (g *Game) Close() {
	if g == nil || g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Printf("Game: close watcher: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	in := g.input.Update()
	if g.input.Quit {
		return ebiten.Termination
	}
	if g.input.Reset {
		if err := g.reset(); err != nil {
			log.Printf("Game: reset: %v", err)
		}
	}
	if g.input.ToggleDebug {
		g.debug = !g.debug
	}

	for _, evt := range g.scene.Step(in) {
		g.last = describe(evt)
		if g.debug {
			log.Printf("Game: %s", g.last)
		}
	}
	return nil
}

// reset rebuilds the scene from the loaded level, keeping a -map override.
func (g *Game) reset() error {
	sc, err := scene.New(g.cfg, g.scene.Level, nil)
	if err != nil {
		return err
	}
	if g.opts.MapPath != "" {
		sc.ReplaceMap(g.scene.Map())
	}
	g.scene = sc
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.reloadMap(path); err != nil {
				log.Printf("Game: reload %s: %v", path, err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Game: watcher: %v", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawScene(screen, g.scene, g.debug)

	b := g.scene.PlayerBody()
	msg := fmt.Sprintf("TPS: %.1f  pos: %.1f,%.1f  floor:%t wall:%t ceiling:%t slides:%d",
		ebiten.ActualTPS(), b.Position().X, b.Position().Y, b.IsOnFloor(), b.IsOnWall(), b.IsOnCeiling(), b.SlideCount())
	if g.last != "" {
		msg += "\n" + g.last
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func describe(evt ecs.ContactEvent) string {
	switch evt.Kind {
	case ecs.ContactLanded:
		return fmt.Sprintf("%s landed, normal %.2f,%.2f", evt.Entity, evt.Normal.X, evt.Normal.Y)
	case ecs.ContactLeftFloor:
		return fmt.Sprintf("%s left the floor", evt.Entity)
	case ecs.ContactHitWall:
		return fmt.Sprintf("%s hit a wall, normal %.2f,%.2f", evt.Entity, evt.Normal.X, evt.Normal.Y)
	case ecs.ContactHitCeiling:
		return fmt.Sprintf("%s hit the ceiling", evt.Entity)
	}
	return fmt.Sprintf("%s: event %d", evt.Entity, evt.Kind)
}
