package audio

import "github.com/diegok/neonpong/internal/view"

// Cue identifies a sound effect
type Cue int

const (
	CuePaddleHit Cue = iota + 1
	CueWallBounce
	CueScore
	CueMatchWon
)

// Detect compares two consecutive snapshots and returns the sounds to play
func Detect(prev, cur view.Snapshot) []Cue {
	var cues []Cue

	// Only consecutive ticks of one round can produce bounces
	if prev.Phase == view.PhasePlaying && cur.Phase == view.PhasePlaying && cur.Tick == prev.Tick+1 {
		// VX sign changed = hit a paddle
		if (prev.Ball.VX > 0 && cur.Ball.VX < 0) || (prev.Ball.VX < 0 && cur.Ball.VX > 0) {
			cues = append(cues, CuePaddleHit)
		}
		// VY sign changed = hit a wall
		if (prev.Ball.VY > 0 && cur.Ball.VY < 0) || (prev.Ball.VY < 0 && cur.Ball.VY > 0) {
			cues = append(cues, CueWallBounce)
		}
	}

	if cur.PlayerScore > prev.PlayerScore || cur.AIScore > prev.AIScore {
		cues = append(cues, CueScore)
		if cur.MatchOver() && !prev.MatchOver() {
			cues = append(cues, CueMatchWon)
		}
	}

	return cues
}
