package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/view"
)

// HoldTicks is how long a key stays held after its last press. Terminals
// report no key release, so auto-repeat keeps a held key alive.
const HoldTicks = 8

// KeyToDirection converts a key event to a movement direction
// For Pong, only up/down movement is allowed
func KeyToDirection(key tcell.Key, r rune) view.Direction {
	switch key {
	case tcell.KeyUp:
		return view.DirUp
	case tcell.KeyDown:
		return view.DirDown
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return view.DirUp
		case 's', 'S':
			return view.DirDown
		}
	}
	return view.DirNone
}

// IsQuitKey returns true if the key should quit the application
func IsQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	if key == tcell.KeyRune && (r == 'q' || r == 'Q') {
		return true
	}
	return false
}

// IsStartKey returns true if the key should start a round
func IsStartKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyEnter || (key == tcell.KeyRune && r == ' ')
}

// IsResetKey returns true if the key should reset the match
func IsResetKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'r' || r == 'R')
}

// HoldTracker turns key presses into held directions on a game.Input,
// releasing them after a number of ticks without a repeat.
type HoldTracker struct {
	input     *game.Input
	ticks     int
	dir       view.Direction
	remaining int
}

func NewHoldTracker(input *game.Input, ticks int) *HoldTracker {
	if ticks < 1 {
		ticks = 1
	}
	return &HoldTracker{input: input, ticks: ticks}
}

// Press holds dir, replacing the opposite direction
func (h *HoldTracker) Press(dir view.Direction) {
	if dir == view.DirNone {
		return
	}
	if h.dir != dir {
		h.input.SetDirection(h.dir, false)
	}
	h.dir = dir
	h.remaining = h.ticks
	h.input.SetDirection(dir, true)
}

// Step counts down one tick and releases the key once it expires
func (h *HoldTracker) Step() {
	if h.dir == view.DirNone {
		return
	}
	h.remaining--
	if h.remaining <= 0 {
		h.Release()
	}
}

func (h *HoldTracker) Release() {
	h.input.SetDirection(h.dir, false)
	h.dir = view.DirNone
	h.remaining = 0
}

func (h *HoldTracker) Direction() view.Direction {
	return h.dir
}
