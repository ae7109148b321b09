package object

import (
	"fmt"
	"sync"

	"github.com/tomz197/risingtide/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// RGBA is a particle colour with alpha in 0..1.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Hex returns the colour without alpha as #rrggbb.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParticleDefaults are applied to every particle an emitter spawns. They may
// be changed between frames; already spawned particles keep their values.
type ParticleDefaults struct {
	Color          RGBA
	Lifetime       int        // Frames
	Velocity       [2]float64 // Base velocity per frame
	RandomVelocity [2]float64 // Spread added to the velocity once at spawn
	RandomJitter   [2]float64 // Spread added to the position every frame
}

// Emitter spawns particles from every set cell of its mask.
type Emitter struct {
	X, Y float64
	Mask [][]uint8
	Rate int // Each cell emits with probability 1/Rate per frame
	Dead bool
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Jitter   [2]float64
	Color    RGBA
	Lifetime int
	Age      int
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	*p = Particle{}
	particlePool.Put(p)
}

// Opacity fades linearly from the colour's alpha to zero over the lifetime.
func (p *Particle) Opacity() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	o := p.Color.A * (1 - float64(p.Age)/float64(p.Lifetime))
	if o < 0 {
		return 0
	}
	return o
}

// ParticleSystem owns a set of emitters and the particles they produce.
// Emitters are only removed once flagged dead.
type ParticleSystem struct {
	Defaults  ParticleDefaults
	scale     float64
	emitters  []*Emitter
	particles []*Particle
}

// NewParticleSystem creates an empty system. scale is the particle size and
// the spacing between mask cells.
func NewParticleSystem(defaults ParticleDefaults, scale float64) *ParticleSystem {
	return &ParticleSystem{Defaults: defaults, scale: scale}
}

// AddEmitter registers a new emitter and returns it so the owner can move
// it or flag it dead.
func (s *ParticleSystem) AddEmitter(x, y float64, mask [][]uint8, rate int) *Emitter {
	e := &Emitter{X: x, Y: y, Mask: mask, Rate: rate}
	s.emitters = append(s.emitters, e)
	return e
}

// AddParticle spawns one particle at (x, y) using the current defaults.
func (s *ParticleSystem) AddParticle(x, y float64, w *World) *Particle {
	d := s.Defaults
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = d.Velocity[0] + w.Spread()*d.RandomVelocity[0]
	p.VY = d.Velocity[1] + w.Spread()*d.RandomVelocity[1]
	p.Jitter = d.RandomJitter
	p.Color = d.Color
	p.Lifetime = d.Lifetime
	p.Age = 0
	s.particles = append(s.particles, p)
	return p
}

// Emitters returns the live emitters.
func (s *ParticleSystem) Emitters() []*Emitter {
	return s.emitters
}

// Particles returns the live particles.
func (s *ParticleSystem) Particles() []*Particle {
	return s.particles
}

// Update prunes dead emitters, lets the others emit, then ages and moves
// every particle. The system itself is never removed.
func (s *ParticleSystem) Update(ctx UpdateContext) (bool, error) {
	w := ctx.World

	emitters := s.emitters[:0]
	for _, e := range s.emitters {
		if e.Dead {
			continue
		}
		emitters = append(emitters, e)
		for y, row := range e.Mask {
			for x, cell := range row {
				if cell == 0 || !w.OneIn(e.Rate) {
					continue
				}
				s.AddParticle(e.X+float64(x)*s.scale, e.Y+float64(y)*s.scale, w)
			}
		}
	}
	clear(s.emitters[len(emitters):])
	s.emitters = emitters

	particles := s.particles[:0]
	for _, p := range s.particles {
		p.Age++
		if p.Age > p.Lifetime {
			p.Release()
			continue
		}
		p.X += p.VX + w.Spread()*p.Jitter[0]
		p.Y += p.VY + w.Spread()*p.Jitter[1]
		particles = append(particles, p)
	}
	clear(s.particles[len(particles):])
	s.particles = particles

	return false, nil
}

// Draw renders each particle as a filled square.
func (s *ParticleSystem) Draw(ctx DrawContext) error {
	for _, p := range s.particles {
		o := p.Opacity()
		if o <= 0 {
			continue
		}
		ctx.Renderer.FillRect(physics.NewRect(p.X, p.Y, s.scale, s.scale), p.Color.Hex(), o)
	}
	return nil
}
