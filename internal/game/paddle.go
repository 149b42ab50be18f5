package game

import "math"

type Paddle struct {
	X           float64 // fixed left edge
	Y           float64 // top edge
	Width       float64
	Height      float64
	FieldHeight float64
}

func NewPaddle(x, width, height, fieldHeight float64) *Paddle {
	p := &Paddle{
		X:           x,
		Width:       width,
		Height:      height,
		FieldHeight: fieldHeight,
	}
	p.Recenter()
	return p
}

// MaxY is the largest legal top edge
func (p *Paddle) MaxY() float64 {
	return p.FieldHeight - p.Height
}

// Clamp keeps the paddle inside [0, MaxY]
func (p *Paddle) Clamp() {
	p.Y = math.Max(0, math.Min(p.MaxY(), p.Y))
}

// Move applies up and down independently, so holding both cancels out.
func (p *Paddle) Move(up, down bool, speed float64) {
	if up {
		p.Y -= speed
	}
	if down {
		p.Y += speed
	}
	p.Clamp()
}

// SetCenterY puts the paddle center at y, clamped to the field
func (p *Paddle) SetCenterY(y float64) {
	p.Y = y - p.Height/2
	p.Clamp()
}

// Track moves the paddle center toward targetY by at most maxStep
func (p *Paddle) Track(targetY, maxStep float64) {
	diff := targetY - p.CenterY()
	if diff > maxStep {
		diff = maxStep
	}
	if diff < -maxStep {
		diff = -maxStep
	}
	p.Y += diff
	p.Clamp()
}

func (p *Paddle) Recenter() {
	p.Y = (p.FieldHeight - p.Height) / 2
}

func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

func (p *Paddle) BottomY() float64 {
	return p.Y + p.Height
}

// RightX returns the x coordinate of the paddle's right face
func (p *Paddle) RightX() float64 {
	return p.X + p.Width
}
