// Package gui is the windowed frontend. It runs on ebiten, which also gives
// real key release events and touch input on mobile targets.
package gui

import (
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/diegok/neonpong/internal/audio"
	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/view"
)

// Height of the scoreboard band drawn above the field
const ScoreboardHeight = 40

// debug font cell size
const (
	glyphW = 6
	glyphH = 16
)

var (
	backgroundColor = color.RGBA{0x05, 0x05, 0x12, 0xff}
	bandColor       = color.RGBA{0x10, 0x10, 0x28, 0xff}
	netColor        = color.RGBA{0x30, 0x30, 0x60, 0xff}
	playerColor     = color.RGBA{0x00, 0xff, 0xff, 0xff}
	aiColor         = color.RGBA{0xff, 0x00, 0xff, 0xff}
	ballColor       = color.RGBA{0xff, 0xff, 0x40, 0xff}
)

type Options struct {
	Sound  bool
	Logger *log.Logger
}

// Game implements ebiten.Game on top of a game.Engine. ebiten calls Update
// at the engine tick rate, so every Update is exactly one tick.
type Game struct {
	engine *game.Engine
	logger *log.Logger
	sound  bool
	prev   view.Snapshot
}

func NewGame(engine *game.Engine, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Game{
		engine: engine,
		logger: opts.Logger,
		sound:  opts.Sound,
		prev:   engine.Snapshot(),
	}
}

// Run opens the window and blocks until it is closed
func Run(g *Game, title string) error {
	r := g.engine.Rules()
	ebiten.SetWindowSize(int(r.FieldWidth)*2, (int(r.FieldHeight)+ScoreboardHeight)*2)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(game.TickRate)

	defer g.engine.Close()
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return fmt.Errorf("window closed with error: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.logger.Debug("quit requested")
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.ResetMatch()
	}
	if g.startRequested() {
		g.engine.StartRound()
	}

	g.readInput()
	g.engine.Advance()

	snap := g.engine.Snapshot()
	if g.sound {
		audio.PlayAll(audio.Detect(g.prev, snap))
	}
	g.prev = snap
	return nil
}

// startRequested reports a start key press, a click or a new touch
func (g *Game) startRequested() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// readInput copies the keyboard, mouse and touch state into the engine input
func (g *Game) readInput() {
	in := g.engine.Input()
	in.SetUp(ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW))
	in.SetDown(ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS))

	// Latest touch wins; a held left mouse button behaves the same way
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		_, y := ebiten.TouchPosition(ids[len(ids)-1])
		in.Touch(fieldY(y))
		return
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		_, y := ebiten.CursorPosition()
		in.Touch(fieldY(y))
	}
}

// fieldY converts a screen row into field space
func fieldY(screenY int) float64 {
	return float64(screenY - ScoreboardHeight)
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.engine.Snapshot()
	screen.Fill(backgroundColor)

	// Scoreboard band
	vector.DrawFilledRect(screen, 0, 0, float32(s.FieldWidth), ScoreboardHeight, bandColor, false)
	score := fmt.Sprintf("PLAYER %d - %d AI", s.PlayerScore, s.AIScore)
	printCentered(screen, score, s.FieldWidth, (ScoreboardHeight-glyphH)/2)

	// Center net
	for y := float32(0); y < float32(s.FieldHeight); y += 16 {
		vector.DrawFilledRect(screen, float32(s.FieldWidth)/2-1, ScoreboardHeight+y, 2, 8, netColor, false)
	}

	drawGlowRect(screen, s.Player.X, s.Player.Y, s.Player.Width, s.Player.Height, playerColor)
	drawGlowRect(screen, s.AI.X, s.AI.Y, s.AI.Width, s.AI.Height, aiColor)
	drawGlowRect(screen, s.Ball.X, s.Ball.Y, s.Ball.Size, s.Ball.Size, ballColor)

	if title, _ := s.Headline(); title != "" {
		mid := ScoreboardHeight + int(s.FieldHeight)/2
		printCentered(screen, title, s.FieldWidth, mid-glyphH)
		printCentered(screen, hint(s), s.FieldWidth, mid+glyphH/2)
	}
}

func hint(s view.Snapshot) string {
	switch {
	case s.MatchOver():
		return "Tap or press SPACE for a new match"
	case s.Phase == view.PhaseRoundEnd:
		return "Next round starting..."
	}
	return "Tap or press SPACE to start"
}

// drawGlowRect draws a field-space rectangle with a faint halo around it
func drawGlowRect(dst *ebiten.Image, x, y, w, h float64, clr color.RGBA) {
	const halo = 3
	glow := color.RGBA{clr.R / 4, clr.G / 4, clr.B / 4, 0x40}
	vector.DrawFilledRect(dst, float32(x-halo), float32(y-halo)+ScoreboardHeight, float32(w+2*halo), float32(h+2*halo), glow, true)
	vector.DrawFilledRect(dst, float32(x), float32(y)+ScoreboardHeight, float32(w), float32(h), clr, true)
}

func printCentered(dst *ebiten.Image, text string, width float64, y int) {
	x := (int(width) - len(text)*glyphW) / 2
	ebitenutil.DebugPrintAt(dst, text, x, y)
}

// Layout keeps a fixed logical resolution; ebiten scales it to the window
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	r := g.engine.Rules()
	return int(r.FieldWidth), int(r.FieldHeight) + ScoreboardHeight
}
