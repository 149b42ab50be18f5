// Package view defines the read-only state the engine hands to presentation layers.
package view

// Direction represents paddle movement direction
type Direction int

const (
	DirNone Direction = 0
	DirUp   Direction = 1
	DirDown Direction = 2
)

// Phase is the match-level state
type Phase int

const (
	PhaseStart    Phase = 0
	PhasePlaying  Phase = 1
	PhaseRoundEnd Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnd:
		return "round-end"
	}
	return "unknown"
}

// Side identifies who won a point (or the match)
type Side int

const (
	SideNone   Side = 0
	SidePlayer Side = 1
	SideAI     Side = 2
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAI:
		return "ai"
	}
	return "none"
}

// BallState represents the ball's position and velocity.
// X and Y are the top-left corner of the ball square.
type BallState struct {
	X    float64
	Y    float64
	VX   float64
	VY   float64
	Size float64
}

// PaddleState represents a paddle's state. Y is the top edge.
type PaddleState struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Snapshot is a copy of the complete game state for one frame
type Snapshot struct {
	Tick        uint64
	Phase       Phase
	Winner      Side
	Ball        BallState
	Player      PaddleState
	AI          PaddleState
	PlayerScore int
	AIScore     int
	FieldWidth  float64
	FieldHeight float64
	PointsToWin int
}

// MatchOver reports whether the match-complete overlay should be shown
func (s Snapshot) MatchOver() bool {
	return s.Phase == PhaseStart && s.MatchWinner() != SideNone
}

// MatchWinner returns the side that reached PointsToWin, if any
func (s Snapshot) MatchWinner() Side {
	if s.PointsToWin <= 0 {
		return SideNone
	}
	if s.PlayerScore >= s.PointsToWin {
		return SidePlayer
	}
	if s.AIScore >= s.PointsToWin {
		return SideAI
	}
	return SideNone
}

// Headline returns the overlay title for the current phase and the side it
// belongs to. It is empty while a round is playing.
func (s Snapshot) Headline() (string, Side) {
	switch {
	case s.MatchOver():
		if w := s.MatchWinner(); w == SidePlayer {
			return "YOU WIN!", w
		}
		return "AI WINS!", SideAI
	case s.Phase == PhaseStart:
		return "NEON PONG", SideNone
	case s.Phase == PhaseRoundEnd:
		if s.Winner == SidePlayer {
			return "PLAYER SCORES!", SidePlayer
		}
		return "AI SCORES!", SideAI
	}
	return "", SideNone
}
