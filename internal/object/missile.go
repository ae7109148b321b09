package object

import (
	"github.com/tomz197/risingtide/internal/physics"
)

const (
	missileSpeed = 8
	// missileCullLeft is how far past the left edge a missile may travel.
	missileCullLeft = 64
)

// Missile hit states.
const (
	MissileLive  = 0
	MissileHit   = 1 // Shows the impact sprite this frame
	MissileSpent = 2 // Removed on the next update
)

// missileTrail is the emission mask of a missile's exhaust.
var missileTrail = [][]uint8{{1}, {1}, {1}, {1}}

// Missile is fired by the submarine and travels horizontally.
type Missile struct {
	X, Y      float64
	VX, VY    float64
	Direction Direction
	HitCount  int
	Emitter   *Emitter

	frame int
}

// newMissile launches a missile from the submarine at (x, y) with its
// trailing emitter.
func newMissile(x, y float64, dir Direction, ps *ParticleSystem) *Missile {
	m := &Missile{
		X:         x + 14,
		Y:         y + 6,
		VX:        missileSpeed * dir.Sign(),
		Direction: dir,
		frame:     int(dir),
	}
	m.Emitter = ps.AddEmitter(m.X, m.Y, missileTrail, 10)
	return m
}

// Bounds is the body of the missile.
func (m *Missile) Bounds() physics.Rect {
	return physics.NewRect(m.X+6, m.Y+10, 32, 8)
}

// Armed reports whether the missile can still hit something this frame.
func (m *Missile) Armed() bool {
	return m.HitCount < MissileSpent
}

// Hit marks the missile as having struck something.
func (m *Missile) Hit() {
	if m.HitCount == MissileLive {
		m.HitCount = MissileHit
	}
}

// Update moves the missile. Returns true when it is spent or has left the
// world; its emitter is flagged dead first.
func (m *Missile) Update(ctx UpdateContext) (bool, error) {
	w := ctx.World
	if m.X > w.Width || m.X < -missileCullLeft || m.HitCount > MissileHit {
		if m.Emitter != nil {
			m.Emitter.Dead = true
		}
		return true, nil
	}

	m.X += m.VX
	m.Y += m.VY

	if m.Emitter != nil {
		if m.Direction == Right {
			m.Emitter.X, m.Emitter.Y = m.X-1, m.Y+11
		} else {
			m.Emitter.X, m.Emitter.Y = m.X+38, m.Y+11
		}
	}

	m.frame = int(m.Direction)
	if m.HitCount == MissileHit {
		m.frame = 3
		m.HitCount = MissileSpent
	}
	return false, nil
}

// Impact reports whether the impact sprite is showing this frame.
func (m *Missile) Impact() bool {
	return m.frame == 3
}

// Draw renders the missile.
func (m *Missile) Draw(ctx DrawContext) error {
	ctx.Renderer.DrawSprite(ctx.World.Sheet.Get("missile", m.frame), m.X, m.Y, 1)
	ctx.Renderer.DrawBounds(m.Bounds())
	return nil
}
