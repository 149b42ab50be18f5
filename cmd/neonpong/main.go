package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/diegok/neonpong/internal/app"
	"github.com/diegok/neonpong/internal/audio"
	"github.com/diegok/neonpong/internal/config"
	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/logging"
	"github.com/diegok/neonpong/internal/ui"
)

func main() {
	cfg, err := config.ParseArgs("neonpong", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: neonpong needs an interactive terminal (try neonpong-gui)")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel, "neonpong")
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	// Game works without sound
	sound := !cfg.Mute
	if sound {
		if err := audio.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
			sound = false
		}
		defer audio.Close()
	}

	screen, err := ui.InitScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "points", cfg.PointsToWin, "sound", sound)
	return app.New(screen, engine, app.Options{Sound: sound, Logger: logger}).Run(ctx)
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
	fmt.Fprintln(os.Stderr, "  neonpong [options]               Play against the computer")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --points <n>        Points to win (default: 7)")
	fmt.Fprintln(os.Stderr, "  --seed <n>          Random seed for serve directions")
	fmt.Fprintln(os.Stderr, "  --mute              Disable sound")
	fmt.Fprintln(os.Stderr, "  --log <file>        Write logs to a file")
	fmt.Fprintln(os.Stderr, "  --log-level <lvl>   debug, info, warn or error (default: info)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Controls:")
	fmt.Fprintln(os.Stderr, "  W/S or arrows       Move paddle (mouse drag works too)")
	fmt.Fprintln(os.Stderr, "  SPACE/ENTER         Start round")
	fmt.Fprintln(os.Stderr, "  R                   Reset match")
	fmt.Fprintln(os.Stderr, "  Q/ESC               Quit")
}
