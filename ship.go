package main

const paddlePadding = 5.0 // hitbox inset, avoids corner-graze bounces

// Ship is a vertically moving paddle controlled by a player or the bot
type Ship struct {
	PlayerID int // 1 = left, 2 = right
	IsBot    bool

	X, Y  float64
	VY    float64
	Dir   int // -1 up, 0 idle, 1 down
	Speed float64
	Score int
	Skin  string // cosmetic skin id, renderer hint only

	// Movement bounds; x bounds keep the ship out of the barrier
	minY, maxY float64
	minX, maxX float64
}

// NewShip creates a ship at its side's reset position
func NewShip(playerID int, isBot bool) *Ship {
	s := &Ship{
		PlayerID: playerID,
		IsBot:    isBot,
		Y:        ScreenHeight / 2,
		Speed:    ShipSpeed,
		Skin:     DefaultSkinFor(playerID),
	}
	s.minY = ShipHeight/2 + 10
	s.maxY = ScreenHeight - ShipHeight/2 - 10

	centerX := ScreenWidth / 2
	laserHalf := LaserWidth / 2
	if playerID == 1 {
		s.X = ShipP1X
		s.minX = ShipMargin + ShipWidth/2
		s.maxX = centerX - laserHalf - ShipWidth/2 - 10
	} else {
		s.X = ShipP2X
		s.minX = centerX + laserHalf + ShipWidth/2 + 10
		s.maxX = ScreenWidth - ShipMargin - ShipWidth/2
	}
	return s
}

// SetMovement sets the movement direction, clamped to {-1, 0, 1}
func (s *Ship) SetMovement(dir int) {
	s.Dir = ClampInt(dir, -1, 1)
}

// Update moves the ship one tick, clamped to its vertical bounds
func (s *Ship) Update(dt float64) {
	if s.Dir != 0 {
		s.VY = float64(s.Dir) * s.Speed
	} else {
		s.VY = 0
	}
	s.Y = Clamp(s.Y+s.VY*dt, s.minY, s.maxY)
	s.X = Clamp(s.X, s.minX, s.maxX)
}

// ResetPosition returns the ship to its serve position
func (s *Ship) ResetPosition() {
	if s.PlayerID == 1 {
		s.X = ShipP1X
	} else {
		s.X = ShipP2X
	}
	s.Y = ScreenHeight / 2
	s.VY = 0
	s.Dir = 0
}

// AddScore adds points to the ship's score
func (s *Ship) AddScore(points int) {
	s.Score += points
}

// Rect returns the ship's full bounding box
func (s *Ship) Rect() Rect {
	return NewRectCentered(s.X, s.Y, ShipWidth, ShipHeight)
}

// PaddleRect returns the slightly inset hitbox used for bounces
func (s *Ship) PaddleRect() Rect {
	return s.Rect().Inset(paddlePadding)
}

// RelativeHitPosition returns where the ball struck the paddle,
// normalized to [-1, 1] from top to bottom
func (s *Ship) RelativeHitPosition(ballY float64) float64 {
	half := ShipHeight / 2
	if half <= 0 {
		return 0
	}
	return Clamp((ballY-s.Y)/half, -1, 1)
}
