package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/diegok/neonpong/internal/view"
)

const (
	BallChar   = '\u2B24' // ⬤
	PaddleChar = '\u2588' // █
)

// Rows reserved outside the field: scoreboard on top, status bar below
const (
	topBar    = 1
	bottomBar = 1
)

// Renderer draws snapshots onto the terminal, scaling the field to fit
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer with the given screen
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// scale maps field coordinates to cells for the current terminal size
func (r *Renderer) scale(fieldW, fieldH float64) (sx, sy float64) {
	screenW, screenH := r.screen.Size()
	rows := screenH - topBar - bottomBar
	if rows < 1 {
		rows = 1
	}
	return float64(screenW) / fieldW, float64(rows) / fieldH
}

// FieldY converts a terminal row into a field-space vertical coordinate at
// the center of that row. ok is false for rows outside the field.
func (r *Renderer) FieldY(row int, fieldH float64) (y float64, ok bool) {
	_, screenH := r.screen.Size()
	if row < topBar || row >= screenH-bottomBar {
		return 0, false
	}
	_, sy := r.scale(1, fieldH)
	return (float64(row-topBar) + 0.5) / sy, true
}

// RenderGame draws the field, both paddles, the ball and the phase overlay
func (r *Renderer) RenderGame(s view.Snapshot) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()
	sx, sy := r.scale(s.FieldWidth, s.FieldHeight)
	fieldRows := screenH - topBar - bottomBar

	courtStyle := tcell.StyleDefault.Background(tcell.ColorBlack)
	r.screen.FillRect(0, topBar, screenW, fieldRows, courtStyle, ' ')

	// Center net
	centerX := screenW / 2
	netStyle := courtStyle.Foreground(NetColor)
	for y := topBar; y < screenH-bottomBar; y += 2 {
		r.screen.SetCell(centerX, y, netStyle, '|')
	}

	r.renderScoreboard(s, screenW)

	r.renderPaddle(s.Player, sx, sy, screenH, courtStyle.Foreground(PlayerColor))
	r.renderPaddle(s.AI, sx, sy, screenH, courtStyle.Foreground(AIColor))

	// Ball is drawn at its center cell
	ballX := int((s.Ball.X + s.Ball.Size/2) * sx)
	ballY := int((s.Ball.Y+s.Ball.Size/2)*sy) + topBar
	if ballX >= 0 && ballX < screenW && ballY >= topBar && ballY < screenH-bottomBar {
		r.screen.SetCell(ballX, ballY, courtStyle.Foreground(BallColor), BallChar)
	}

	r.renderOverlay(s, screenH)

	// Status bar at bottom
	statusY := screenH - 1
	statusStyle := tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite)
	r.screen.FillRect(0, statusY, screenW, 1, statusStyle, ' ')
	statusText := fmt.Sprintf(" First to %d | W/S or arrows move | SPACE start | R reset | Q quit", s.PointsToWin)
	r.screen.DrawText(0, statusY, statusText, statusStyle)

	r.screen.Show()
}

func (r *Renderer) renderPaddle(p view.PaddleState, sx, sy float64, screenH int, style tcell.Style) {
	left := int(p.X * sx)
	right := int((p.X + p.Width) * sx)
	if right <= left {
		right = left + 1
	}
	top := int(p.Y*sy) + topBar
	bottom := int((p.Y+p.Height)*sy) + topBar
	if bottom <= top {
		bottom = top + 1
	}

	for y := top; y < bottom; y++ {
		if y < topBar || y >= screenH-bottomBar {
			continue
		}
		for x := left; x < right; x++ {
			r.screen.SetCell(x, y, style, PaddleChar)
		}
	}
}

// renderScoreboard draws the stadium-style scoreboard on the top row
func (r *Renderer) renderScoreboard(s view.Snapshot, screenW int) {
	// [ PLAYER 3 - 2 AI ]
	bg := tcell.StyleDefault.Background(tcell.ColorDarkGray).Bold(true)
	r.screen.FillRect(0, 0, screenW, 1, bg, ' ')

	parts := []struct {
		text  string
		style tcell.Style
	}{
		{"[ ", bg.Foreground(tcell.ColorWhite)},
		{"PLAYER", bg.Foreground(PlayerColor)},
		{fmt.Sprintf(" %d - %d ", s.PlayerScore, s.AIScore), bg.Foreground(tcell.ColorWhite)},
		{"AI", bg.Foreground(AIColor)},
		{" ]", bg.Foreground(tcell.ColorWhite)},
	}

	total := 0
	for _, p := range parts {
		total += len(p.text)
	}
	x := (screenW - total) / 2
	for _, p := range parts {
		r.screen.DrawText(x, 0, p.text, p.style)
		x += len(p.text)
	}
}

// renderOverlay draws the message box for every phase except Playing
func (r *Renderer) renderOverlay(s view.Snapshot, screenH int) {
	title, side := s.Headline()
	if title == "" {
		return
	}
	titleStyle := SideStyle(side)

	hint := "Press SPACE to start"
	switch {
	case s.MatchOver():
		hint = "Press SPACE for a new match"
	case s.Phase == view.PhaseRoundEnd:
		hint = "Next round starting..."
	}

	screenW, _ := r.screen.Size()
	boxW := len(hint) + 6
	boxH := 7
	boxX := (screenW - boxW) / 2
	boxY := (screenH - boxH) / 2
	fill := tcell.StyleDefault.Background(tcell.ColorDarkGray)

	r.screen.FillRect(boxX+1, boxY+1, boxW-2, boxH-2, fill, ' ')
	r.screen.DrawBox(boxX, boxY, boxW, boxH, fill.Foreground(tcell.ColorWhite))
	r.screen.DrawCentered(boxY+2, title, titleStyle.Background(tcell.ColorDarkGray))
	r.screen.DrawCentered(boxY+4, hint, fill.Foreground(tcell.ColorGreen))
}
