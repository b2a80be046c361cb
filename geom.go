package main

// Rect is an axis-aligned bounding box with a top-left origin,
// matching screen coordinates (y grows downward).
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRectCentered builds a Rect from a center point and dimensions
func NewRectCentered(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y-coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x-coordinate of the center
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// Overlaps reports whether two rectangles intersect
func (r Rect) Overlaps(o Rect) bool {
	if r.X >= o.Right() || o.X >= r.Right() {
		return false
	}
	if r.Y >= o.Bottom() || o.Y >= r.Bottom() {
		return false
	}
	return true
}

// Inset shrinks the rectangle by pad on every side
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X + pad, Y: r.Y + pad, W: r.W - pad*2, H: r.H - pad*2}
}
