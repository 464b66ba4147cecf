package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileslide/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $TILESLIDE_CONFIG, then built-in values)")
	levelName := flag.String("level", "", "level name in levels/ (overrides the config)")
	debug := flag.Bool("debug", false, "draw collision shapes and log contact events")
	mapPath := flag.String("map", "", "YAML or TMX map file that replaces the level's tiles")
	mapLayer := flag.String("layer", "collision", "tile layer to read from a TMX map")
	watch := flag.Bool("watch", false, "reload the map when its file changes on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Level.Name = *levelName
	}

	game, err := NewGame(cfg, Options{MapPath: *mapPath, MapLayer: *mapLayer, Debug: *debug, Watch: *watch})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Window.Width*cfg.Window.Scale, cfg.Window.Height*cfg.Window.Scale)
	ebiten.SetWindowTitle("tileslide")
	ebiten.SetTPS(int(1/cfg.Step.Delta + 0.5))

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
