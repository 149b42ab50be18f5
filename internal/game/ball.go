package game

type Ball struct {
	X, Y   float64 // top-left corner
	VX, VY float64
	Size   float64
}

func NewBall(x, y, size float64) *Ball {
	return &Ball{X: x, Y: y, Size: size}
}

// Move advances the ball by its velocity
func (b *Ball) Move() {
	b.X += b.VX
	b.Y += b.VY
}

// CenterY returns the vertical center of the ball square
func (b *Ball) CenterY() float64 {
	return b.Y + b.Size/2
}

// BounceWalls clamps the ball to the top/bottom edges and inverts VY when it
// was travelling into the wall. Returns true if a bounce happened.
func (b *Ball) BounceWalls(fieldHeight float64) bool {
	if b.Y <= 0 {
		b.Y = 0
		if b.VY < 0 {
			b.VY = -b.VY
			return true
		}
		return false
	}
	if b.Y+b.Size >= fieldHeight {
		b.Y = fieldHeight - b.Size
		if b.VY > 0 {
			b.VY = -b.VY
			return true
		}
	}
	return false
}

// OverlapsY reports whether the ball's vertical extent overlaps the paddle's
func (b *Ball) OverlapsY(p *Paddle) bool {
	return b.Y+b.Size > p.Y && b.Y < p.BottomY()
}

// BounceOffPaddle reflects the horizontal velocity, amplifies it by speedUp
// capped at maxSpeed, and adds spin proportional to the hit offset.
func (b *Ball) BounceOffPaddle(p *Paddle, speedUp, maxSpeed, spin float64) {
	vx := -b.VX * speedUp
	if vx > maxSpeed {
		vx = maxSpeed
	}
	if vx < -maxSpeed {
		vx = -maxSpeed
	}
	b.VX = vx
	b.VY += (b.CenterY() - p.CenterY()) * spin
}

// Reset places the ball at (x, y) and launches it horizontally at speed in
// the given direction with vertical velocity vy.
func (b *Ball) Reset(x, y, speed, vy float64, launchRight bool) {
	b.X = x
	b.Y = y
	if launchRight {
		b.VX = speed
	} else {
		b.VX = -speed
	}
	b.VY = vy
}
