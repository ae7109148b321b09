package loop

import (
	"fmt"

	"github.com/tomz197/risingtide/internal/draw"
	"github.com/tomz197/risingtide/internal/loop/config"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/physics"
)

// Scene colours.
const (
	backgroundColor = "#888888"
	waterBackColor  = "#222034"
	waterFrontColor = "#30384d"
	lostColor       = "#640000"
	pauseColor      = "#000000"
	textColor       = "#ffffff"
)

// Draw renders the current frame of the session.
func (s *Session) Draw(r object.Renderer) error {
	if s.Phase == PhaseCharacterSelect {
		s.drawSelect(r)
		return nil
	}

	r.Cursor(draw.CursorDefault)
	if err := s.drawWorld(r); err != nil {
		return err
	}
	s.drawHUD(r)

	switch s.Phase {
	case PhaseLost:
		s.drawLostScreen(r)
	case PhaseWon:
		s.drawWonScreen(r)
	default:
		if s.Paused {
			s.drawPauseScreen(r)
		}
	}
	return nil
}

// drawWorld renders the room, the water, the hazards and every entity.
func (s *Session) drawWorld(r object.Renderer) error {
	w, p := s.World, s.Player
	ctx := object.DrawContext{Renderer: r, World: w}

	r.Flood(backgroundColor, 1)

	water := w.WaterLevel
	if water > 0 {
		r.FillRect(physics.NewRect(-1, w.Height-water, w.Width, water), waterBackColor, 1)
	}
	if s.Endgame == 0 && p.Platform != nil {
		s.drawStartButton(r)
	}
	if water > 0 {
		r.FillRect(physics.NewRect(0, w.Height-water, w.Width, water), waterFrontColor, 1)
	}

	if p.Mode != object.Submarine && p.Mode != object.OnGiantSub {
		r.DrawSprite(w.Sheet.Get("submarine", 1), config.SubmarineX, config.SubmarineY, 1)
	}
	r.DrawBounds(submarineBox)

	pipe := w.Ticks%4 + 2
	if s.Endgame > config.DistanceToPipe {
		pipe = 6
	}
	r.DrawSprite(w.Sheet.Get("pipe", pipe), config.PipeX, config.PipeY, 1)
	r.DrawBounds(pipeTarget)
	if s.pipeHint {
		hint := "the pipe keeps flooding the room"
		if p.Mode == object.Submarine {
			hint = "clear the fish to stop the flood"
		}
		r.DrawSprite(s.ui.Get("cause", 1, 1), 180, w.Height-20, 1)
		r.Text(184, w.Height-18, hint, textColor)
	}

	if err := p.Particles.Draw(ctx); err != nil {
		return err
	}
	if err := p.Draw(ctx); err != nil {
		return err
	}

	if s.Giant {
		r.DrawSprite(w.Sheet.Get("fish3", 1), s.GiantX, config.GiantFishY, 1)
		for _, b := range giantFishBoxes(s.GiantX) {
			r.DrawBounds(b)
		}
	}

	for _, f := range s.Fishes {
		if err := f.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drawStartButton shows the start button sinking into the mud as the water
// rises over it.
func (s *Session) drawStartButton(r object.Renderer) {
	water := s.World.WaterLevel
	x, y := r.CenterX(config.StartButtonWidth), r.CenterY(config.StartButtonHeight)

	switch {
	case water < 50:
		r.DrawSprite(s.start.Get("button", 1, 1), x, y, 1)
		if water > 25 {
			r.DrawSprite(s.start.Get("button", 1, 2), x, y, (water-25)/25)
		}
	case water < 100:
		r.DrawSprite(s.start.Get("button", 1, 2), x, y, 1)
	case water < 400:
		r.DrawSprite(s.start.Get("button", 1, 3), x, y, 1)
		r.DrawSprite(s.start.Get("button", 1, 4), x, y+(water-100)*3, 1)
	}
}

// drawHUD draws a heart per point of health and the fish kill counter.
func (s *Session) drawHUD(r object.Renderer) {
	w, p := s.World, s.Player

	x := 10.0
	for i := 0; i < object.MaxHealth; i++ {
		frame := 2
		if p.Health > i {
			frame = 1
		}
		r.DrawSprite(s.ui.Get("heart", frame), x, 10, 1)
		x += 9 * w.Scale
	}

	x += 12
	r.DrawSprite(s.ui.Get("score", 1), x, 10, 1)
	r.Text(x+4, 12, fmt.Sprintf("fish %d", w.FishKilled), textColor)
}

func (s *Session) drawPauseScreen(r object.Renderer) {
	r.Flood(pauseColor, 0.4)
	r.TextCentered(r.Height()/2, "PAUSED", textColor)
	r.TextCentered(r.Height()/2+20, "press esc to resume, m to mute", textColor)
}

func (s *Session) drawLostScreen(r object.Renderer) {
	r.Flood(lostColor, 0.8)
	r.DrawSprite(s.ui.Get("text", 1), r.CenterX(72), r.CenterY(10), 1)
	r.TextCentered(r.CenterY(10)+8, "GAME OVER", textColor)

	cause, msg := 2, "a fish got you"
	if s.Player.LastDamageCause == object.CauseWater {
		cause, msg = 1, "you ran out of breath"
	}
	r.DrawSprite(s.ui.Get("cause", 1, cause), r.CenterX(57), r.CenterY(5)+20, 1)
	r.TextCentered(r.CenterY(5)+24, msg, textColor)
	r.TextCentered(r.CenterY(5)+60, "press enter to play again, q to quit", textColor)
}

func (s *Session) drawWonScreen(r object.Renderer) {
	r.DrawSprite(s.ui.Get("text", 2), r.CenterX(72), r.CenterY(10), 1)
	r.TextCentered(r.CenterY(10)+8, "THE TIDE IS OUT", textColor)
	r.TextCentered(r.CenterY(10)+44, fmt.Sprintf("%d fish killed", s.World.FishKilled), textColor)
	r.TextCentered(r.CenterY(10)+64, "press enter to play again, q to quit", textColor)
}
