package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"

	"github.com/diegok/neonpong/internal/audio"
	"github.com/diegok/neonpong/internal/config"
	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/gui"
	"github.com/diegok/neonpong/internal/logging"
)

func main() {
	cfg, err := config.ParseArgs("neonpong-gui", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// The window leaves the terminal free, so logs default to stderr
	logger, err := logging.New(os.Stderr, cfg.LogLevel, "neonpong")
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		var closeLog func() error
		logger, closeLog, err = logging.Open(cfg.LogFile, cfg.LogLevel, "neonpong")
		if err != nil {
			return err
		}
		defer closeLog()
	}

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	sound := !cfg.Mute
	if sound {
		if err := audio.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
			sound = false
		}
		defer audio.Close()
	}

	logger.Info("starting", "points", cfg.PointsToWin, "sound", sound)
	return gui.Run(gui.NewGame(engine, gui.Options{Sound: sound, Logger: logger}), "Neon Pong")
}

func newEngine(cfg *config.Config, logger *log.Logger) (*game.Engine, error) {
	rules := game.DefaultRules()
	rules.PointsToWin = cfg.PointsToWin

	opts := game.Options{Logger: logger}
	if cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	}
	return game.NewEngine(rules, opts)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  neonpong-gui [options]           Play in a window")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --points <n>        Points to win (default: 7)")
	fmt.Fprintln(os.Stderr, "  --seed <n>          Random seed for serve directions")
	fmt.Fprintln(os.Stderr, "  --mute              Disable sound")
	fmt.Fprintln(os.Stderr, "  --log <file>        Write logs to a file instead of stderr")
	fmt.Fprintln(os.Stderr, "  --log-level <lvl>   debug, info, warn or error (default: info)")
}
