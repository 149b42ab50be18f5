package app

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/diegok/neonpong/internal/audio"
	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/ui"
	"github.com/diegok/neonpong/internal/view"
)

// Options configures an App. Zero values select the defaults.
type Options struct {
	Sound        bool
	Logger       *log.Logger
	TickInterval time.Duration
}

// App runs one match on a terminal screen: it turns events into engine input,
// advances the engine at a fixed rate and renders every tick.
type App struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	engine   *game.Engine
	hold     *ui.HoldTracker
	logger   *log.Logger
	sound    bool
	interval time.Duration

	// For sound detection
	prev view.Snapshot
}

// New creates an App drawing to screen and driving engine
func New(screen *ui.Screen, engine *game.Engine, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second / game.TickRate
	}
	return &App{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		engine:   engine,
		hold:     ui.NewHoldTracker(engine.Input(), ui.HoldTicks),
		logger:   opts.Logger,
		sound:    opts.Sound,
		interval: opts.TickInterval,
		prev:     engine.Snapshot(),
	}
}

// Run is the main loop. It returns when a quit key is pressed, the screen
// stops delivering events or ctx is cancelled. The engine is closed on
// return; the caller still owns the screen.
func (a *App) Run(ctx context.Context) error {
	defer a.engine.Close()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.render(a.prev)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("context cancelled", "err", ctx.Err())
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handleEvent(ev) {
				a.logger.Debug("quit requested")
				return nil
			}

		case <-ticker.C:
			a.step()
		}
	}
}

// handleEvent processes keyboard, mouse and resize events.
// Returns true if the application should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		key, r := ev.Key(), ev.Rune()
		switch {
		case ui.IsQuitKey(key, r):
			return true
		case ui.IsResetKey(key, r):
			a.hold.Release()
			a.engine.ResetMatch()
		case ui.IsStartKey(key, r):
			a.engine.StartRound()
		default:
			a.hold.Press(ui.KeyToDirection(key, r))
		}

	case *tcell.EventMouse:
		// Dragging with the primary button acts as a touch
		if ev.Buttons()&tcell.Button1 == 0 {
			return false
		}
		_, row := ev.Position()
		if y, ok := a.renderer.FieldY(row, a.engine.Rules().FieldHeight); ok {
			a.engine.Input().Touch(y)
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.render(a.prev)
	}

	return false
}

// step advances the engine one tick, plays cues and renders
func (a *App) step() {
	a.engine.Advance()
	a.hold.Step()

	snap := a.engine.Snapshot()
	if a.sound {
		audio.PlayAll(audio.Detect(a.prev, snap))
	}
	a.prev = snap
	a.render(snap)
}

func (a *App) render(s view.Snapshot) {
	a.renderer.RenderGame(s)
}
