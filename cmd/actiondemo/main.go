package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/aicore/config"
	"github.com/milk9111/aicore/prefabs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	planName := flag.String("plan", "", "action plan file in prefabs/ (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	watch := flag.Bool("watch", false, "reload the plan when prefabs/ changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *planName != "" {
		cfg.Actions.Plan = *planName
	}
	if *debug {
		cfg.Debug = true
	}
	if *watch {
		cfg.World.HotReload = true
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	d, err := newDemo(cfg.Actions.Plan, os.Stdout, logger)
	if err != nil {
		logger.Fatal("actiondemo: start", zap.Error(err))
	}

	if cfg.World.HotReload {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts")
		if err != nil {
			logger.Warn("actiondemo: hot reload disabled", zap.Error(err))
		} else {
			defer w.Close()
			d.watcher = w
		}
	}

	d.run(bufio.NewScanner(os.Stdin))
}
