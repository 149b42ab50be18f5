package game

import (
	"errors"
	"fmt"
	"time"
)

// Field and physics constants
const (
	FieldWidth      = 460
	FieldHeight     = 320
	PaddleWidth     = 10
	PaddleHeight    = 64
	PaddleMargin    = 12
	BallSize        = 16
	PlayerSpeed     = 6
	AISpeed         = 4
	BallSpeedStart  = 4
	BallSpeedMax    = 8
	SpeedIncrement  = 1.08 // horizontal speed-up per paddle hit
	SpinFactor      = 0.18 // vertical speed added per unit of off-center hit
	LaunchSpreadVY  = 6    // initial VY is uniform in [-spread/2, spread/2)
	DefaultWinScore = 7
	TickRate        = 60 // nominal ticks per second
	RestartDelay    = time.Second
)

// Rules holds the fixed parameters of a match
type Rules struct {
	FieldWidth     float64
	FieldHeight    float64
	PaddleWidth    float64
	PaddleHeight   float64
	PaddleMargin   float64
	BallSize       float64
	PlayerSpeed    float64
	AISpeed        float64
	BallSpeedStart float64
	BallSpeedMax   float64
	SpeedIncrement float64
	SpinFactor     float64
	LaunchSpreadVY float64
	PointsToWin    int
	RestartDelay   time.Duration
}

// DefaultRules returns the standard rules
func DefaultRules() Rules {
	return Rules{
		FieldWidth:     FieldWidth,
		FieldHeight:    FieldHeight,
		PaddleWidth:    PaddleWidth,
		PaddleHeight:   PaddleHeight,
		PaddleMargin:   PaddleMargin,
		BallSize:       BallSize,
		PlayerSpeed:    PlayerSpeed,
		AISpeed:        AISpeed,
		BallSpeedStart: BallSpeedStart,
		BallSpeedMax:   BallSpeedMax,
		SpeedIncrement: SpeedIncrement,
		SpinFactor:     SpinFactor,
		LaunchSpreadVY: LaunchSpreadVY,
		PointsToWin:    DefaultWinScore,
		RestartDelay:   RestartDelay,
	}
}

// Validate checks that the rules describe a playable field
func (r Rules) Validate() error {
	if r.FieldWidth <= 0 || r.FieldHeight <= 0 {
		return errors.New("field dimensions must be positive")
	}
	if r.PaddleHeight <= 0 || r.PaddleHeight > r.FieldHeight {
		return fmt.Errorf("paddle height must be in (0, %g], got %g", r.FieldHeight, r.PaddleHeight)
	}
	if r.BallSize <= 0 || r.BallSize > r.FieldHeight {
		return fmt.Errorf("ball size must be in (0, %g], got %g", r.FieldHeight, r.BallSize)
	}
	if 2*(r.PaddleMargin+r.PaddleWidth)+r.BallSize > r.FieldWidth {
		return errors.New("field too narrow for paddles and ball")
	}
	if r.BallSpeedStart <= 0 || r.BallSpeedMax < r.BallSpeedStart {
		return fmt.Errorf("ball speeds must satisfy 0 < start <= max, got start=%g max=%g", r.BallSpeedStart, r.BallSpeedMax)
	}
	if r.SpeedIncrement < 1 {
		return fmt.Errorf("speed increment must be >= 1, got %g", r.SpeedIncrement)
	}
	if r.PointsToWin < 1 {
		return fmt.Errorf("points must be at least 1, got %d", r.PointsToWin)
	}
	if r.RestartDelay < 0 {
		return fmt.Errorf("restart delay must not be negative, got %s", r.RestartDelay)
	}
	return nil
}

// rightPaddleX is the left edge of the AI paddle
func (r Rules) rightPaddleX() float64 {
	return r.FieldWidth - r.PaddleMargin - r.PaddleWidth
}
