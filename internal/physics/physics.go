// Package physics provides axis-aligned bounding boxes and the overlap test
// used for every collision in the game.
package physics

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Size
}

// NewRect builds a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Collides reports whether two rectangles overlap, edges included.
// The test is symmetric: Collides(a, b) == Collides(b, a).
func Collides(a, b Rect) bool {
	return a.X <= b.Right() && a.Right() >= b.X &&
		a.Y <= b.Bottom() && a.Bottom() >= b.Y
}

// Clamp limits v to the closed range [lo, hi].
// When lo > hi the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ClampInt is Clamp for integers.
func ClampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
