package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/sprite"
)

// World dimensions in logical units and the sprite scale.
const (
	WorldWidth  = 500
	WorldHeight = 500
	Scale       = 2
)

// TickInterval is the animation tick shared by fish and the pipe.
const TickInterval = 50 * time.Millisecond

// World is the state shared by every entity of one session.
type World struct {
	Width, Height float64
	Scale         float64

	Ticks      int     // Animation ticks elapsed
	Frames     int     // Played frames
	WaterLevel float64 // Water height measured from the bottom
	FishKilled int

	Rand   *rand.Rand
	Tuning config.Tuning
	Sheet  *sprite.Sheet // Underwater sprites

	tickAcc time.Duration
}

// NewWorld creates an empty world. rng must not be nil.
func NewWorld(t config.Tuning, rng *rand.Rand) *World {
	return &World{
		Width:  WorldWidth,
		Height: WorldHeight,
		Scale:  Scale,
		Rand:   rng,
		Tuning: t,
		Sheet:  sprite.Underwater(),
	}
}

// Waterline is the y coordinate of the water surface.
func (w *World) Waterline() float64 {
	return w.Height - w.WaterLevel
}

// Advance moves the world one played frame forward: the tick counter from
// the elapsed time and the water rising by one every second frame.
func (w *World) Advance(delta time.Duration) {
	w.tickAcc += delta
	for w.tickAcc > TickInterval {
		w.Ticks++
		w.tickAcc -= TickInterval
	}

	w.Frames++
	if w.Frames%2 == 1 && w.WaterLevel < w.Height {
		w.WaterLevel++
	}
}

// RandInt returns a uniform integer in [lo, hi].
func (w *World) RandInt(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + w.Rand.Intn(hi-lo+1)
}

// OneIn reports true with probability 1/n.
func (w *World) OneIn(n int) bool {
	if n <= 1 {
		return true
	}
	return w.Rand.Intn(n) == 0
}

// Spread returns a random factor in [-1, 1] in steps of 0.1.
func (w *World) Spread() float64 {
	return float64(w.RandInt(-10, 10)) / 10
}
