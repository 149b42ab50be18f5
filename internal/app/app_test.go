package app

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/ui"
	"github.com/diegok/neonpong/internal/view"
)

func newTestApp(t *testing.T) (*App, *game.Engine, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.Setup(sim)
	if err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	sim.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	engine, err := game.NewEngine(game.DefaultRules(), game.Options{
		Scheduler: game.NewManualScheduler(),
		Rand:      rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	return New(screen, engine, Options{TickInterval: time.Millisecond}), engine, sim
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestHandleEvent_StartAndReset(t *testing.T) {
	a, engine, _ := newTestApp(t)

	if a.handleEvent(key(tcell.KeyRune, ' ')) {
		t.Fatal("space should not quit")
	}
	if engine.Phase() != view.PhasePlaying {
		t.Fatalf("expected playing after space, got %v", engine.Phase())
	}

	a.handleEvent(key(tcell.KeyRune, 'w'))
	a.handleEvent(key(tcell.KeyRune, 'r'))
	if engine.Phase() != view.PhaseStart {
		t.Errorf("expected start after reset, got %v", engine.Phase())
	}
	if c := engine.Input().Read(); c.Up {
		t.Error("expected held keys released on reset")
	}
}

func TestHandleEvent_Quit(t *testing.T) {
	a, _, _ := newTestApp(t)

	for _, ev := range []*tcell.EventKey{key(tcell.KeyRune, 'q'), key(tcell.KeyEscape, 0)} {
		if !a.handleEvent(ev) {
			t.Errorf("expected %v to quit", ev.Name())
		}
	}
}

func TestStep_KeyMovesPaddle(t *testing.T) {
	a, engine, _ := newTestApp(t)
	a.handleEvent(key(tcell.KeyEnter, 0))

	before := engine.Player().Y
	a.handleEvent(key(tcell.KeyUp, 0))
	a.step()
	if got := engine.Player().Y; got != before-game.PlayerSpeed {
		t.Errorf("expected paddle at %f, got %f", before-game.PlayerSpeed, got)
	}

	// Without repeats the key is released after the hold window
	for i := 0; i < ui.HoldTicks+2; i++ {
		a.step()
	}
	settled := engine.Player().Y
	a.step()
	if engine.Player().Y != settled {
		t.Error("expected paddle to stop once the key hold expired")
	}
}

func TestStep_MouseDragTouches(t *testing.T) {
	a, engine, _ := newTestApp(t)
	a.handleEvent(key(tcell.KeyEnter, 0))

	a.handleEvent(tcell.NewEventMouse(10, 12, tcell.Button1, tcell.ModNone))
	a.step()

	want, _ := a.renderer.FieldY(12, game.FieldHeight)
	player := engine.Player()
	if got := player.CenterY(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected paddle center %f, got %f", want, got)
	}

	// Motion without a button is ignored
	before := engine.Player().Y
	a.handleEvent(tcell.NewEventMouse(10, 2, tcell.ButtonNone, tcell.ModNone))
	a.step()
	if engine.Player().Y != before {
		t.Error("expected hover to leave the paddle alone")
	}
}

func TestStep_RendersSnapshot(t *testing.T) {
	a, _, sim := newTestApp(t)
	a.step()

	found := false
	for x := 0; x < 80; x++ {
		r, _, _, _ := sim.GetContent(x, 0)
		if r == 'P' {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected scoreboard to be rendered")
	}
}

func TestRun_QuitKey(t *testing.T) {
	a, engine, sim := newTestApp(t)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(context.Background()) }()

	sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit key")
	}

	if engine.Phase() != view.PhasePlaying {
		t.Errorf("expected round started before quitting, got %v", engine.Phase())
	}
}

func TestRun_ContextCancel(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
