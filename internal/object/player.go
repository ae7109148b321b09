package object

import (
	"time"

	"github.com/tomz197/risingtide/internal/input"
	"github.com/tomz197/risingtide/internal/physics"
	"github.com/tomz197/risingtide/internal/sprite"
)

// Mode is what the player currently is.
type Mode int

const (
	Walking Mode = iota
	Swimming
	Submarine
	OnGiantSub
	Dead
)

func (m Mode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Swimming:
		return "swimming"
	case Submarine:
		return "submarine"
	case OnGiantSub:
		return "on giant sub"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// DamageCause is what last hurt the player.
type DamageCause int

const (
	CauseNone DamageCause = iota
	CauseWater
	CauseFish
)

func (c DamageCause) String() string {
	switch c {
	case CauseWater:
		return "water"
	case CauseFish:
		return "fish"
	}
	return "none"
}

// MaxHealth is the starting and maximum health.
const MaxHealth = 5

const (
	gravity      = 5
	waterDrift   = 1
	surfaceGap   = 16 // How far above the waterline a swimmer can rise
	walkSpeed    = 3
	swimSpeed    = 2
	subSpeed     = 3
	walkInterval = 100 * time.Millisecond
	idleChance   = 200
)

// exhaustMask is the emission mask of the submarine exhaust.
var exhaustMask = [][]uint8{{1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}}

// defaultParticles are the player's particle settings.
var defaultParticles = ParticleDefaults{
	Color:          RGBA{R: 255, G: 255, B: 255, A: 0.2},
	Lifetime:       40,
	Velocity:       [2]float64{1, 0},
	RandomVelocity: [2]float64{0.6, 0.6},
}

// Player is the character: it walks on land, swims once the water reaches
// it, and pilots the submarine after picking it up.
type Player struct {
	X, Y               float64
	Mode               Mode
	Direction          Direction
	Health             int
	HoldingBreathTicks int
	HitByFish          bool // Set by the game loop for one frame on fish contact
	DamagedByFishTicks int
	Missiles           []*Missile // Fire order
	LastDamageCause    DamageCause
	InWater            bool // Never resets once set
	HeadUnderWater     bool
	Platform           *physics.Rect // nil once destroyed
	Character          int
	Particles          *ParticleSystem

	sheet      *sprite.Sheet
	exhaust    *Emitter
	fire       input.Toggle
	walkPhase  int
	walkStep   int
	walkAcc    time.Duration
	idleToggle bool
	spriteName string
	frame      int
	flashed    bool
}

// NewPlayer places the chosen character on the starting platform in the
// middle of the world.
func NewPlayer(character int, w *World) *Player {
	platform := physics.NewRect(w.Width/2-52*w.Scale/2, w.Height/2-18*w.Scale/2, 52*w.Scale, 18*w.Scale)
	p := &Player{
		X:          w.Width/2 - 16*w.Scale/2,
		Y:          0,
		Mode:       Walking,
		Direction:  Right,
		Health:     MaxHealth,
		Platform:   &platform,
		Particles:  NewParticleSystem(defaultParticles, w.Scale),
		fire:       input.Toggle{Action: input.ActionSpace},
		walkStep:   1,
		spriteName: "walking",
		frame:      1,
	}
	p.SetCharacter(character)
	return p
}

// SetCharacter switches the character sprites.
func (p *Player) SetCharacter(n int) {
	p.Character = n
	p.sheet = sprite.Character(n)
}

func (p *Player) inSub() bool {
	return p.Mode == Submarine || p.Mode == OnGiantSub
}

// Width depends on whether the player is lying flat in the water.
func (p *Player) Width(w *World) float64 {
	if p.InWater {
		return 32 * w.Scale
	}
	return 16 * w.Scale
}

// Height is lower inside the submarine.
func (p *Player) Height(w *World) float64 {
	if p.inSub() {
		return 20 * w.Scale
	}
	return 32 * w.Scale
}

// Bounds is the player's collision box.
func (p *Player) Bounds(w *World) physics.Rect {
	return physics.NewRect(p.X, p.Y, p.Width(w), p.Height(w))
}

// BoardSubmarine turns the player into the submarine at (x, y) and starts
// its exhaust.
func (p *Player) BoardSubmarine(x, y float64) {
	if p.Mode == Dead || p.inSub() {
		return
	}
	p.Mode = Submarine
	p.X, p.Y = x, y
	p.spriteName = "submarine"
	p.frame = int(p.Direction)
	p.exhaust = p.Particles.AddEmitter(x-1, y+11, exhaustMask, 10)
}

// Rescue puts the player on top of the giant submarine. Input is ignored
// from then on.
func (p *Player) Rescue() {
	if p.Mode == Dead {
		return
	}
	p.Mode = OnGiantSub
}

// DestroyPlatform removes the platform. It returns true only the first time.
func (p *Player) DestroyPlatform() bool {
	if p.Platform == nil {
		return false
	}
	p.Platform = nil
	return true
}

// Damage takes n health, clamped at zero.
func (p *Player) Damage(n int, cause DamageCause) {
	p.LastDamageCause = cause
	p.setHealth(p.Health - n)
}

func (p *Player) setHealth(h int) {
	p.Health = physics.ClampInt(h, 0, MaxHealth)
	if p.Health == 0 {
		p.Mode = Dead
	}
}

// Flashed reports whether the submarine took a fish hit this frame.
func (p *Player) Flashed() bool {
	return p.flashed
}

// Update runs one frame of player physics, damage and movement. The player
// is never removed.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	if p.Mode == Dead {
		return false, nil
	}
	w := ctx.World
	in := ctx.Input
	fire := p.fire.Fire(in)
	defer func() { p.HitByFish = false }()

	p.advanceWalkCycle(ctx.Delta)
	p.applyPhysics(w)

	if p.Mode == Walking || p.Mode == Swimming {
		p.breathe(w)
		if p.Mode == Dead {
			return false, nil
		}
	}

	if w.OneIn(idleChance) {
		p.idleToggle = !p.idleToggle
	}

	switch p.Mode {
	case OnGiantSub:
		p.spriteName = "submarine"
		p.frame = int(p.Direction)
	case Submarine:
		p.updateSubmarine(w, in, fire)
	case Swimming:
		p.updateSwimming(in)
	case Walking:
		p.updateWalking(in)
	}

	missiles := p.Missiles[:0]
	for _, m := range p.Missiles {
		remove, err := m.Update(ctx)
		if err != nil {
			return false, err
		}
		if !remove {
			missiles = append(missiles, m)
		}
	}
	clear(p.Missiles[len(missiles):])
	p.Missiles = missiles

	return false, nil
}

// advanceWalkCycle ping-pongs the walk phase 0, 1, 2, 1, 0 on played time.
func (p *Player) advanceWalkCycle(delta time.Duration) {
	p.walkAcc += delta
	if p.walkAcc <= walkInterval {
		return
	}
	p.walkAcc = 0
	p.walkPhase += p.walkStep
	if p.walkPhase >= 2 || p.walkPhase <= 0 {
		p.walkStep = -p.walkStep
	}
}

func (p *Player) applyPhysics(w *World) {
	if !p.InWater {
		p.Y += gravity
	} else if !p.inSub() {
		p.Y += waterDrift
	}

	waterline := w.Waterline()
	if p.InWater && p.Y < waterline-surfaceGap {
		p.Y = waterline - surfaceGap
	}
	p.Y = physics.Clamp(p.Y, 0, w.Height-p.Height(w))

	if pf := p.Platform; pf != nil && !p.inSub() {
		top := pf.Y - 32*w.Scale
		if p.X > pf.X+10-18*w.Scale && p.X < pf.X-8+pf.W && p.Y > top && p.Y < pf.Bottom() {
			p.Y = top
		}
	}

	if waterline < p.Y+32 {
		p.InWater = true
		if p.Mode == Walking {
			p.Mode = Swimming
		}
	}
}

func (p *Player) breathe(w *World) {
	if !p.InWater {
		return
	}
	if p.HitByFish {
		p.LastDamageCause = CauseFish
		p.setHealth(0)
		return
	}

	if w.Waterline() < p.Y+10 {
		p.HeadUnderWater = true
		p.HoldingBreathTicks++
		if p.HoldingBreathTicks > w.Tuning.BreathHurtRate {
			p.HoldingBreathTicks = 0
			p.Damage(1, CauseWater)
		}
		return
	}

	p.HeadUnderWater = false
	p.HoldingBreathTicks -= 2
	if p.HoldingBreathTicks < 0 {
		p.HoldingBreathTicks = 0
	}
}

func (p *Player) updateSubmarine(w *World, in input.Set, fire bool) {
	if p.exhaust == nil {
		p.exhaust = p.Particles.AddEmitter(p.X-1, p.Y+11, exhaustMask, 10)
	}
	moving := in.Pressed(input.ActionLeft) || in.Pressed(input.ActionRight)
	speed := 1.0
	p.exhaust.Rate = 10
	if moving {
		p.exhaust.Rate = 4
		speed = 2
	}
	if p.Direction == Right {
		p.exhaust.X, p.exhaust.Y = p.X-1, p.Y+11
		p.Particles.Defaults.Velocity = [2]float64{-speed, 0}
	} else {
		p.exhaust.X, p.exhaust.Y = p.X+64, p.Y+11
		p.Particles.Defaults.Velocity = [2]float64{speed, 0}
	}

	p.spriteName = "submarine"
	p.frame = int(p.Direction)
	if p.Health < 3 {
		p.frame = int(p.Direction) + 4
	}

	p.flashed = p.HitByFish
	if p.HitByFish {
		p.frame = int(p.Direction) + 2
		p.HitByFish = false
		p.DamagedByFishTicks++
		p.LastDamageCause = CauseFish
	}
	if p.DamagedByFishTicks >= w.Tuning.FishDamageTicks {
		p.DamagedByFishTicks = 0
		p.Damage(1, CauseFish)
	}

	if in.Pressed(input.ActionLeft) {
		p.X -= subSpeed
		p.Direction = Left
	} else if in.Pressed(input.ActionRight) {
		p.X += subSpeed
		p.Direction = Right
	}
	if in.Pressed(input.ActionDown) {
		p.Y += subSpeed
	} else if in.Pressed(input.ActionUp) {
		p.Y -= subSpeed
	}

	if fire && p.Mode == Submarine {
		p.Missiles = append(p.Missiles, newMissile(p.X, p.Y, p.Direction, p.Particles))
	}
}

func (p *Player) updateSwimming(in input.Set) {
	p.spriteName = "swimming"
	p.frame = 1
	if in.Pressed(input.ActionLeft) {
		p.frame = 2
		p.X -= swimSpeed
	} else if in.Pressed(input.ActionRight) {
		p.frame = 4
		p.X += swimSpeed
	}
	if in.Pressed(input.ActionDown) {
		p.frame = 1
		p.Y += swimSpeed
	} else if in.Pressed(input.ActionUp) {
		p.frame = 3
		p.Y -= swimSpeed
	}
}

func (p *Player) updateWalking(in input.Set) {
	p.spriteName = "walking"
	switch {
	case in.Pressed(input.ActionLeft):
		p.frame = 3 + p.walkPhase
		p.X -= walkSpeed
	case in.Pressed(input.ActionRight):
		p.frame = 6 + p.walkPhase
		p.X += walkSpeed
	default:
		p.frame = 1
		if p.idleToggle {
			p.frame = 2
		}
	}
}

// Frame returns the sprite strip and frame chosen by the last update.
func (p *Player) Frame() (name string, frame int) {
	return p.spriteName, p.frame
}

// Draw renders the player, its missiles and the submarine cover on top.
func (p *Player) Draw(ctx DrawContext) error {
	w := ctx.World
	r := ctx.Renderer

	switch p.Mode {
	case OnGiantSub:
		r.DrawSprite(w.Sheet.Get("submarine", int(p.Direction)), p.X, p.Y, 1)
		r.DrawSprite(p.sheet.Get("walking", 1), p.X, p.Y-24, 1)
	case Submarine:
		r.DrawSprite(w.Sheet.Get("submarine", p.frame), p.X, p.Y, 1)
	default:
		if p.spriteName == "submarine" {
			r.DrawSprite(w.Sheet.Get("submarine", p.frame), p.X, p.Y, 1)
		} else {
			r.DrawSprite(p.sheet.Get(p.spriteName, p.frame), p.X, p.Y, 1)
		}
	}

	for _, m := range p.Missiles {
		if err := m.Draw(ctx); err != nil {
			return err
		}
	}

	if p.Mode == Submarine {
		cover := int(p.Direction) + 8
		if p.flashed {
			cover -= 2
		}
		r.DrawSprite(w.Sheet.Get("submarine", cover), p.X, p.Y, 1)
	}

	r.DrawBounds(p.Bounds(w))
	return nil
}
