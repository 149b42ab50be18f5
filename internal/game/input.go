package game

import (
	"math"
	"sync/atomic"

	"github.com/diegok/neonpong/internal/view"
)

// Controls is the input consumed by a single tick
type Controls struct {
	Up      bool
	Down    bool
	Touched bool    // a touch-move happened since the last tick
	TouchY  float64 // field-space vertical coordinate of the latest touch
}

// Input holds the live input state. Presentation layers write to it from
// their event goroutines; the engine reads it once per tick.
type Input struct {
	up      atomic.Bool
	down    atomic.Bool
	touched atomic.Bool
	touchY  atomic.Uint64
}

func (in *Input) SetUp(pressed bool) {
	in.up.Store(pressed)
}

func (in *Input) SetDown(pressed bool) {
	in.down.Store(pressed)
}

// SetDirection sets the flag for dir. DirNone is ignored.
func (in *Input) SetDirection(dir view.Direction, pressed bool) {
	switch dir {
	case view.DirUp:
		in.SetUp(pressed)
	case view.DirDown:
		in.SetDown(pressed)
	}
}

// Touch records a touch-move at field-space y. Only the latest touch before a
// tick is used.
func (in *Input) Touch(y float64) {
	in.touchY.Store(math.Float64bits(y))
	in.touched.Store(true)
}

// Release clears every flag and any pending touch
func (in *Input) Release() {
	in.up.Store(false)
	in.down.Store(false)
	in.touched.Store(false)
}

// Read returns the current controls and consumes the pending touch
func (in *Input) Read() Controls {
	c := Controls{
		Up:   in.up.Load(),
		Down: in.down.Load(),
	}
	if in.touched.Swap(false) {
		c.Touched = true
		c.TouchY = math.Float64frombits(in.touchY.Load())
	}
	return c
}
