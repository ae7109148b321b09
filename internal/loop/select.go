package loop

import (
	"github.com/tomz197/risingtide/internal/draw"
	"github.com/tomz197/risingtide/internal/input"
	"github.com/tomz197/risingtide/internal/loop/config"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/physics"
)

// characterBox is the clickable area around a character slot.
func characterBox(sl slot) physics.Rect {
	return physics.NewRect(sl.X-8, sl.Y-5, config.CharacterBoxWidth, config.CharacterBoxHeight)
}

// startBox is the clickable start button, centred in the world.
func startBox() physics.Rect {
	w := float64(config.StartButtonWidth * object.Scale)
	h := float64(config.StartButtonHeight * object.Scale)
	return physics.NewRect(config.ViewWidth/2-w/2, config.ViewHeight/2-h/2, w, h)
}

// updateSelect handles the character select screen: hover and click on a
// character (or press its digit), then click start (or press enter/space).
func (s *Session) updateSelect(f Frame) {
	s.cursor = draw.CursorDefault
	s.Hovered = 0
	mouse := physics.NewRect(f.Pointer.X, f.Pointer.Y, 1, 1)

	if s.Chosen == 0 {
		for i, sl := range s.Slots {
			if !f.Pointer.Valid || !physics.Collides(characterBox(sl), mouse) {
				continue
			}
			s.Hovered = i + 1
			s.cursor = draw.CursorPointer
			if f.Pointer.Down {
				s.choose(i + 1)
			}
		}
		if n := f.Input.Number; n >= 1 && n <= len(s.Slots) {
			s.choose(n)
		}
		return
	}

	clicked := f.Pointer.Valid && physics.Collides(startBox(), mouse)
	if clicked {
		s.cursor = draw.CursorPointer
	}
	if (clicked && f.Pointer.Down) || f.Input.Pressed(input.ActionEnter) || f.Input.Pressed(input.ActionSpace) {
		s.begin()
	}
}

// choose records the selected character.
func (s *Session) choose(n int) {
	s.Chosen = n
	s.logger.Debug("character chosen", "character", n)
}

// drawSelect renders the title, the four characters and, once one is
// chosen, the start button.
func (s *Session) drawSelect(r object.Renderer) {
	r.Flood(backgroundColor, 1)
	r.Cursor(s.cursor)

	if s.Chosen != 0 {
		box := startBox()
		r.DrawSprite(s.start.Get("button", 1, 1), box.X, box.Y, 1)
		r.TextCentered(box.Y+box.H/2, "START", textColor)
		r.DrawBounds(box)
		r.TextCentered(box.Bottom()+24, "click start or press enter", textColor)
		return
	}

	r.TextCentered(60, "RISING TIDE", textColor)
	r.DrawSprite(s.ui.Get("lines", 1), r.CenterX(44), 130, 1)

	for i, sl := range s.Slots {
		r.DrawSprite(s.characters[i].Get("walking", 3), sl.X, sl.Y, 1)
		box := characterBox(sl)
		r.DrawBounds(box)
		if s.Hovered == i+1 {
			r.DrawSprite(s.ui.Get("border", 1), box.X, box.Y, 1)
		} else {
			r.DrawSprite(s.ui.Get("border", 2), box.X, box.Y, 0.1)
		}
	}
	r.TextCentered(r.Height()-60, "pick a character: click or press 1-4", textColor)
}
