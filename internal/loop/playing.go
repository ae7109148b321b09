package loop

import (
	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/loop/config"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/physics"
)

// updatePlaying runs one played frame.
func (s *Session) updatePlaying(f Frame) error {
	w, p := s.World, s.Player
	ctx := object.UpdateContext{Delta: f.Delta, Input: f.Input, World: w}

	w.Advance(f.Delta)

	if s.Endgame == 0 && p.Platform != nil && w.Waterline() < p.Platform.Y {
		if p.DestroyPlatform() {
			s.logger.Debug("platform flooded", "water", w.WaterLevel)
		}
	}

	if physics.Collides(submarineBox, p.Bounds(w)) && (p.Mode == object.Walking || p.Mode == object.Swimming) {
		p.BoardSubmarine(config.SubmarineDockX, config.SubmarineY)
		s.logger.Info("submarine boarded", "water", w.WaterLevel)
	}

	s.pipeHint = s.Endgame == 0 && physics.Collides(pipeBox, p.Bounds(w))
	s.setLayer(layerFor(p))

	if _, err := p.Update(ctx); err != nil {
		return err
	}

	s.updateEndgame()

	checkMissileHazardCollisions(p.Missiles, s.hazards())

	bitten, err := s.checkFishCollisions(ctx)
	if err != nil {
		return err
	}
	if bitten {
		p.HitByFish = true
	}

	if _, err := p.Particles.Update(ctx); err != nil {
		return err
	}

	switch {
	case p.Health == 0:
		s.finish(PhaseLost)
	case s.Endgame > config.EndgameWin && w.WaterLevel < 0:
		s.finish(PhaseWon)
	}
	return nil
}

// updateEndgame scripts the giant fish once enough fish are killed and the
// water is clear of them, or spawns new fish before that.
func (s *Session) updateEndgame() {
	w, p := s.World, s.Player
	s.Giant = false

	if w.FishKilled > w.Tuning.Level3() && len(s.Fishes) == 0 {
		s.Endgame++
		if s.Endgame == 1 {
			s.logger.Info("endgame started", "fish", w.FishKilled)
		}

		if w.WaterLevel < config.RescueLevel && !s.rescued && p.Mode != object.Dead {
			p.Rescue()
			s.rescued = true
			s.logger.Info("player rescued")
		}

		switch {
		case s.Endgame > config.EndgameWin:
			w.WaterLevel -= config.EndgameDrain
			s.GiantX = w.Width - config.DistanceToPipe + float64(s.Endgame-config.EndgameWin)
		case s.Endgame > config.DistanceToPipe:
			w.WaterLevel -= config.EndgameDrain
			s.GiantX = w.Width - config.DistanceToPipe
		default:
			s.GiantX = w.Width - float64(s.Endgame)
		}
		s.Giant = true
		return
	}

	if w.FishKilled <= w.Tuning.Level3() && w.WaterLevel > config.FishSpawnLevel && w.OneIn(w.Tuning.FishSpawnChance) {
		s.Fishes = append(s.Fishes, object.NewFish(w))
	}
}

// layerFor picks the music layer for what the player is doing.
func layerFor(p *object.Player) audio.Layer {
	switch {
	case p.Mode == object.OnGiantSub:
		return audio.LayerSurface
	case p.Mode == object.Submarine:
		return audio.LayerSubmarine
	case p.InWater && p.HeadUnderWater:
		return audio.LayerUnderwater
	}
	return audio.LayerSurface
}
