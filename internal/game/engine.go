package game

import (
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diegok/neonpong/internal/view"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Scheduler Scheduler
	Rand      *rand.Rand
	Logger    *log.Logger
}

// Engine owns the authoritative match state and advances it one tick at a time
type Engine struct {
	mu     sync.Mutex
	rules  Rules
	sched  Scheduler
	rng    *rand.Rand
	logger *log.Logger
	input  *Input

	player      *Paddle
	ai          *Paddle
	ball        *Ball
	playerScore int
	aiScore     int
	phase       view.Phase
	winner      view.Side
	tick        uint64

	// Pending round restart. round is bumped on every transition that must
	// invalidate it, so a callback that already fired cannot apply late.
	restart Timer
	round   uint64
}

// NewEngine creates an engine in the Start phase with zeroed scores
func NewEngine(rules Rules, opts Options) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	e := &Engine{
		rules:  rules,
		sched:  opts.Scheduler,
		rng:    opts.Rand,
		logger: opts.Logger,
		input:  &Input{},
		player: NewPaddle(rules.PaddleMargin, rules.PaddleWidth, rules.PaddleHeight, rules.FieldHeight),
		ai:     NewPaddle(rules.rightPaddleX(), rules.PaddleWidth, rules.PaddleHeight, rules.FieldHeight),
		ball:   NewBall(0, 0, rules.BallSize),
	}
	e.resetMatch()
	return e, nil
}

// Input returns the engine-owned input state for presentation layers to write
func (e *Engine) Input() *Input {
	return e.input
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// ResetMatch zeroes both scores and returns to the Start phase
func (e *Engine) ResetMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetMatch()
	e.logger.Debug("match reset")
}

func (e *Engine) resetMatch() {
	e.cancelRestart()
	e.playerScore = 0
	e.aiScore = 0
	e.winner = view.SideNone
	e.player.Recenter()
	e.ai.Recenter()
	e.launchBall()
	e.phase = view.PhaseStart
}

// StartRound begins a round from Start or RoundEnd. It is ignored while a
// round is already playing. Starting after a completed match begins a new one.
func (e *Engine) StartRound() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == view.PhasePlaying {
		return
	}
	if e.matchWinner() != view.SideNone {
		e.playerScore = 0
		e.aiScore = 0
		e.logger.Debug("new match")
	}
	e.startRound()
}

func (e *Engine) startRound() {
	e.cancelRestart()
	e.player.Recenter()
	e.ai.Recenter()
	e.launchBall()
	e.phase = view.PhasePlaying
	e.logger.Debug("round started", "vx", e.ball.VX, "vy", e.ball.VY)
}

// Advance reads the engine-owned input and runs one tick. The pending touch
// is consumed even when no round is playing.
func (e *Engine) Advance() {
	e.Tick(e.input.Read())
}

// Tick advances the simulation by one fixed step. It does nothing unless
// the phase is Playing.
func (e *Engine) Tick(c Controls) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != view.PhasePlaying {
		return
	}
	e.tick++
	r := e.rules

	player := *e.player
	if c.Touched && !math.IsNaN(c.TouchY) {
		player.SetCenterY(c.TouchY)
	} else {
		if c.Touched {
			e.logger.Warn("ignoring touch with invalid coordinate", "y", c.TouchY)
		}
		player.Move(c.Up, c.Down, r.PlayerSpeed)
	}

	ai := *e.ai
	ai.Track(e.ball.CenterY(), r.AISpeed)

	ball := *e.ball
	ball.Move()
	ball.BounceWalls(r.FieldHeight)

	if ball.X <= player.RightX() && ball.OverlapsY(&player) && ball.VX < 0 {
		ball.X = player.RightX()
		ball.BounceOffPaddle(&player, r.SpeedIncrement, r.BallSpeedMax, r.SpinFactor)
	} else if ball.X+ball.Size >= ai.X && ball.OverlapsY(&ai) && ball.VX > 0 {
		ball.X = ai.X - ball.Size
		ball.BounceOffPaddle(&ai, r.SpeedIncrement, r.BallSpeedMax, r.SpinFactor)
	}

	*e.player = player
	*e.ai = ai

	switch {
	case ball.X < 0:
		e.aiScore++
		e.scored(view.SideAI)
		return
	case ball.X > r.FieldWidth-ball.Size:
		e.playerScore++
		e.scored(view.SidePlayer)
		return
	}

	*e.ball = ball
}

// scored records the point, then either ends the match or schedules the
// next round.
func (e *Engine) scored(side view.Side) {
	e.winner = side
	e.phase = view.PhaseRoundEnd
	e.logger.Debug("point scored", "by", side, "player", e.playerScore, "ai", e.aiScore)

	if w := e.matchWinner(); w != view.SideNone {
		e.phase = view.PhaseStart
		e.winner = view.SideNone
		e.cancelRestart()
		e.logger.Info("match over", "winner", w, "player", e.playerScore, "ai", e.aiScore)
		return
	}
	e.scheduleRestart()
}

func (e *Engine) scheduleRestart() {
	e.cancelRestart()
	round := e.round
	e.restart = e.sched.AfterFunc(e.rules.RestartDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.round != round || e.phase != view.PhaseRoundEnd {
			return
		}
		e.restart = nil
		e.startRound()
	})
}

func (e *Engine) cancelRestart() {
	e.round++
	if e.restart != nil {
		e.restart.Stop()
		e.restart = nil
	}
}

// Close cancels any pending round restart
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRestart()
}

func (e *Engine) matchWinner() view.Side {
	if e.playerScore >= e.rules.PointsToWin {
		return view.SidePlayer
	}
	if e.aiScore >= e.rules.PointsToWin {
		return view.SideAI
	}
	return view.SideNone
}

// launchBall centers the ball and picks a random direction and vertical speed
func (e *Engine) launchBall() {
	r := e.rules
	launchRight := e.rng.Intn(2) == 0
	vy := (e.rng.Float64() - 0.5) * r.LaunchSpreadVY
	e.ball.Size = r.BallSize
	e.ball.Reset(r.FieldWidth/2-r.BallSize/2, r.FieldHeight/2-r.BallSize/2, r.BallSpeedStart, vy, launchRight)
}

func (e *Engine) Phase() view.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Winner returns the side that won the last round
func (e *Engine) Winner() view.Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner
}

// Scores returns (player, ai)
func (e *Engine) Scores() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playerScore, e.aiScore
}

func (e *Engine) Player() Paddle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.player
}

func (e *Engine) AI() Paddle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.ai
}

func (e *Engine) Ball() Ball {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.ball
}

// SetBall replaces the ball state. Used to set up deterministic scenarios.
func (e *Engine) SetBall(b Ball) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b.Size <= 0 {
		b.Size = e.rules.BallSize
	}
	*e.ball = b
}

// SetPaddles places both paddles by top edge, clamped to the field
func (e *Engine) SetPaddles(playerY, aiY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.player.Y = playerY
	e.player.Clamp()
	e.ai.Y = aiY
	e.ai.Clamp()
}

// Snapshot returns a copy of the state for rendering
func (e *Engine) Snapshot() view.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return view.Snapshot{
		Tick:        e.tick,
		Phase:       e.phase,
		Winner:      e.winner,
		Ball:        view.BallState{X: e.ball.X, Y: e.ball.Y, VX: e.ball.VX, VY: e.ball.VY, Size: e.ball.Size},
		Player:      paddleState(e.player),
		AI:          paddleState(e.ai),
		PlayerScore: e.playerScore,
		AIScore:     e.aiScore,
		FieldWidth:  e.rules.FieldWidth,
		FieldHeight: e.rules.FieldHeight,
		PointsToWin: e.rules.PointsToWin,
	}
}

func paddleState(p *Paddle) view.PaddleState {
	return view.PaddleState{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}
