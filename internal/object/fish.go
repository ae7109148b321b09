package object

import (
	"github.com/tomz197/risingtide/internal/physics"
)

// FishSize selects the sprite strip and bounding boxes of a fish.
type FishSize int

const (
	FishSmall FishSize = 1
	FishLarge FishSize = 2
)

const (
	fishSpeed       = 3
	fishSpawnLeftX  = -100
	fishSpawnRightX = 600
	fishOffscreen   = 150
)

// Fish swims straight across the water. A fish that has been hit keeps
// drifting while its death countdown runs and can no longer bite.
type Fish struct {
	X, Y           float64
	Direction      Direction // Heading
	Size           FishSize
	DeathCountdown *int // nil while alive

	deathFrames int
	frame       int
}

// NewFish spawns a fish off a random edge at a random depth within the water.
// Large fish appear once enough fish have been killed.
func NewFish(w *World) *Fish {
	f := &Fish{
		Direction:   Left,
		Size:        FishSmall,
		deathFrames: w.Tuning.FishDeathFrames,
	}
	if w.RandInt(1, 2) == 2 {
		f.Direction = Right
	}
	if w.FishKilled >= w.Tuning.Level2() {
		f.Size = FishLarge
	}
	f.X = fishSpawnRightX
	if f.Direction == Right {
		f.X = fishSpawnLeftX
	}
	f.Y = float64(w.RandInt(int(w.Height-w.WaterLevel), int(w.Height)-50))
	return f
}

// Dying reports whether the fish has been hit.
func (f *Fish) Dying() bool {
	return f.DeathCountdown != nil
}

// Die starts the death countdown. It returns true only for the call that
// actually killed the fish.
func (f *Fish) Die() bool {
	if f.DeathCountdown != nil {
		return false
	}
	n := f.deathFrames
	if n < 1 {
		n = 1
	}
	f.DeathCountdown = &n
	return true
}

// VisualBounds is the full body used for missile hits.
func (f *Fish) VisualBounds() physics.Rect {
	if f.Size == FishLarge {
		return physics.NewRect(f.X, f.Y, 100, 64)
	}
	return physics.NewRect(f.X, f.Y, 50, 32)
}

// DamageBounds is the mouth, the only part that hurts the player.
func (f *Fish) DamageBounds() physics.Rect {
	if f.Size == FishLarge {
		x := f.X
		if f.Direction == Right {
			x += 84
		}
		return physics.NewRect(x, f.Y+10, 20, 40)
	}
	x := f.X
	if f.Direction == Right {
		x += 36
	}
	return physics.NewRect(x, f.Y+5, 20, 20)
}

// spriteDir is the sprite column for the heading: 1 faces left, 2 right.
func (f *Fish) spriteDir() int {
	if f.Direction == Right {
		return 2
	}
	return 1
}

// Update advances the countdown and swims. A dying fish is drawn with its hit
// sprite once per countdown frame and removed on the update after the last.
// Returns true then, or once the fish is well past either edge.
func (f *Fish) Update(ctx UpdateContext) (bool, error) {
	w := ctx.World

	f.frame = f.spriteDir() + (w.Ticks%2)*2
	if f.DeathCountdown != nil {
		if *f.DeathCountdown <= 0 {
			return true, nil
		}
		*f.DeathCountdown--
		f.frame = f.spriteDir() + 4
	}

	f.X += fishSpeed * f.Direction.Sign()

	if f.X > w.Width+fishOffscreen || f.X < -fishOffscreen {
		return true, nil
	}
	return false, nil
}

// Draw renders the fish and, in debug mode, both boxes.
func (f *Fish) Draw(ctx DrawContext) error {
	name := "fish1"
	if f.Size == FishLarge {
		name = "fish2"
	}
	frame := f.frame
	if frame == 0 {
		frame = f.spriteDir()
	}
	ctx.Renderer.DrawSprite(ctx.World.Sheet.Get(name, frame), f.X, f.Y, 1)
	ctx.Renderer.DrawBounds(f.VisualBounds())
	ctx.Renderer.DrawBounds(f.DamageBounds())
	return nil
}
