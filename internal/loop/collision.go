package loop

import (
	"github.com/tomz197/risingtide/internal/loop/config"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/physics"
)

// Fixed hazard boxes in world coordinates.
var (
	// Boarding the waiting submarine
	submarineBox = physics.NewRect(-60, 460, 68, 40)
	// Touching the pipe shows a hint
	pipeBox = physics.NewRect(config.PipeX, config.PipeY, config.PipeSize, config.PipeSize)
	// Missiles explode on the pipe
	pipeTarget = physics.NewRect(400, 470, 20, 20)
)

// giantFishBoxes are the two hitboxes of the giant fish at x.
func giantFishBoxes(x float64) [2]physics.Rect {
	return [2]physics.Rect{
		physics.NewRect(x, config.GiantFishY, config.GiantFishBoxW, config.GiantFishBoxH),
		physics.NewRect(x, config.GiantFishLower, config.GiantFishBoxW, config.GiantFishBoxH),
	}
}

// hazards returns the boxes missiles explode against this frame.
func (s *Session) hazards() []physics.Rect {
	boxes := []physics.Rect{pipeTarget}
	if s.Giant {
		g := giantFishBoxes(s.GiantX)
		boxes = append(boxes, g[0], g[1])
	}
	return boxes
}

// checkMissileHazardCollisions marks missiles that hit the pipe or the
// giant fish.
func checkMissileHazardCollisions(missiles []*object.Missile, hazards []physics.Rect) {
	for _, m := range missiles {
		if !m.Armed() {
			continue
		}
		for _, h := range hazards {
			if physics.Collides(h, m.Bounds()) {
				m.Hit()
			}
		}
	}
}

// checkFishCollisions tests every live fish against the player and the
// missiles, then updates the fish and drops the finished ones. It reports
// whether any fish bit the player. A fish is killed and counted only once.
func (s *Session) checkFishCollisions(ctx object.UpdateContext) (bitten bool, err error) {
	w, p := s.World, s.Player
	pb := p.Bounds(w)

	kept := s.Fishes[:0]
	for _, f := range s.Fishes {
		if !f.Dying() {
			if physics.Collides(f.DamageBounds(), pb) {
				bitten = true
			}
			hit := false
			for _, m := range p.Missiles {
				if m.Armed() && physics.Collides(f.VisualBounds(), m.Bounds()) {
					m.Hit()
					hit = true
				}
			}
			if hit && f.Die() {
				w.FishKilled++
				s.logger.Debug("fish killed", "total", w.FishKilled, "size", f.Size)
			}
		}

		remove, ferr := f.Update(ctx)
		if ferr != nil {
			return bitten, ferr
		}
		if !remove {
			kept = append(kept, f)
		}
	}
	clear(s.Fishes[len(kept):])
	s.Fishes = kept
	return bitten, nil
}
