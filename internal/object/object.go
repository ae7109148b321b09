// Package object holds the game entities: the player and its missiles, fish,
// the particle system, and the world state they share.
package object

import (
	"time"

	"github.com/tomz197/risingtide/internal/input"
	"github.com/tomz197/risingtide/internal/physics"
	"github.com/tomz197/risingtide/internal/sprite"
)

// Renderer draws in logical game units. Sprite sizes are in sprite pixels
// and get multiplied by the renderer's scale.
type Renderer interface {
	DrawSprite(ref sprite.Ref, x, y, opacity float64)
	FillRect(r physics.Rect, hex string, alpha float64)
	Flood(hex string, alpha float64)
	Clear()
	Width() float64
	Height() float64
	CenterX(w float64) float64
	CenterY(h float64) float64
	Cursor(style string)
	DrawBounds(r physics.Rect)
	Text(x, y float64, s, hex string)
	TextCentered(y float64, s, hex string)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration // Played time since the previous frame
	Input input.Set
	World *World
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Renderer Renderer
	World    *World
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object.
	Draw(ctx DrawContext) error
}

// Direction is a horizontal facing or heading.
type Direction int

const (
	Right Direction = 1
	Left  Direction = 2
)

// Sign returns +1 for Right and -1 for Left.
func (d Direction) Sign() float64 {
	if d == Left {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}
