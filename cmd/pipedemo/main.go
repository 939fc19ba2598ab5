package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/aicore/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	sceneName := flag.String("scene", "", "scene file in prefabs/ (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	watch := flag.Bool("watch", false, "reload the scene when prefabs/ changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *sceneName != "" {
		cfg.World.Scene = *sceneName
	}
	if *debug {
		cfg.Debug = true
	}
	if *watch {
		cfg.World.HotReload = true
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if cfg.World.Seed == 0 {
		cfg.World.Seed = time.Now().UnixNano()
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	game, err := NewGame(cfg, logger, rand.New(rand.NewSource(cfg.World.Seed)))
	if err != nil {
		logger.Fatal("pipedemo: start", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("AI4G: Steering Pipeline Demo")
	ebiten.SetTPS(cfg.Motion.TickRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("pipedemo: run", zap.Error(err))
	}
}
