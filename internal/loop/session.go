// Package loop runs a game session: the character select screen, the
// per-frame playing sequence with its endgame script, and the terminal
// client that drives it.
package loop

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/input"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/sprite"
)

// Phase represents the current game phase of a session.
type Phase int

const (
	PhaseCharacterSelect Phase = iota // Pick a character, then press start
	PhasePlaying                      // Active gameplay
	PhaseWon                          // Water drained after the endgame
	PhaseLost                         // Player health reached zero
)

func (p Phase) String() string {
	switch p {
	case PhaseCharacterSelect:
		return "character select"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// Audio is the music backend a session drives.
type Audio interface {
	LoadMusic(path string) <-chan error
	SetLayer(l audio.Layer)
	SetMasterVolume(v float64)
	Close() error
}

// Pointer is the mouse in logical units.
type Pointer struct {
	X, Y  float64
	Valid bool
	Down  bool
}

// Frame is one frame's input to a session.
type Frame struct {
	Delta   time.Duration // Wall time since the previous frame
	Input   input.Set
	Pointer Pointer
}

// slot is where a character stands on the select screen.
type slot struct {
	X, Y float64
}

// characterSlots are shuffled once per session.
var characterSlots = [sprite.Characters]slot{
	{352, 175},
	{120, 175},
	{430, 135},
	{57, 124},
}

// Session holds one player's game. It is owned by a single goroutine.
type Session struct {
	Phase   Phase
	Paused  bool
	Muted   bool
	Endgame int     // Endgame frames elapsed, 0 before it starts
	GiantX  float64 // Giant fish position while visible
	Giant   bool    // Giant fish is on screen this frame
	Fishes  []*object.Fish
	World   *object.World
	Player  *object.Player
	Chosen  int // Selected character, 0 until one is picked
	Hovered int // Character under the pointer, 0 if none
	Slots   [sprite.Characters]slot

	tuning   config.Tuning
	rng      *rand.Rand
	audio    Audio
	logger   *log.Logger
	pause    input.Toggle
	mute     input.Toggle
	layer    audio.Layer
	volume   float64
	pipeHint bool
	rescued  bool
	cursor   string

	ui         *sprite.Sheet
	start      *sprite.Sheet
	characters [sprite.Characters]*sprite.Sheet
}

// NewSession creates a session on the character select screen. A nil audio
// backend plays nothing and a nil logger discards.
func NewSession(t config.Tuning, rng *rand.Rand, a Audio, logger *log.Logger) *Session {
	if a == nil {
		a = audio.Silent{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{
		Phase:  PhaseCharacterSelect,
		Slots:  characterSlots,
		tuning: t,
		rng:    rng,
		audio:  a,
		logger: logger,
		pause:  input.Toggle{Action: input.ActionEsc},
		mute:   input.Toggle{Action: input.ActionMute},
		volume: -1,
		ui:     sprite.UI(),
		start:  sprite.Start(),
	}
	for i := range s.characters {
		s.characters[i] = sprite.Character(i + 1)
	}
	rng.Shuffle(len(s.Slots), func(i, j int) {
		s.Slots[i], s.Slots[j] = s.Slots[j], s.Slots[i]
	})
	s.applyVolume()
	return s
}

// Update advances the session by one frame.
func (s *Session) Update(f Frame) error {
	if s.mute.Fire(f.Input) {
		s.Muted = !s.Muted
		s.logger.Debug("mute toggled", "muted", s.Muted)
	}
	if s.pause.Fire(f.Input) && s.Phase == PhasePlaying {
		s.Paused = !s.Paused
		s.logger.Debug("pause toggled", "paused", s.Paused)
	}
	s.applyVolume()

	switch s.Phase {
	case PhaseCharacterSelect:
		s.updateSelect(f)
	case PhasePlaying:
		if s.Paused {
			return nil
		}
		return s.updatePlaying(f)
	case PhaseWon, PhaseLost:
		if f.Input.Pressed(input.ActionEnter) {
			s.restart()
		}
	}
	return nil
}

// applyVolume silences the music while paused or muted.
func (s *Session) applyVolume() {
	v := s.tuning.Volume
	if s.Paused || s.Muted {
		v = 0
	}
	if v == s.volume {
		return
	}
	s.volume = v
	s.audio.SetMasterVolume(v)
}

// setLayer switches the audible music layer when it changes.
func (s *Session) setLayer(l audio.Layer) {
	if l == s.layer {
		return
	}
	s.layer = l
	s.audio.SetLayer(l)
}

// begin starts play with the chosen character.
func (s *Session) begin() {
	s.World = object.NewWorld(s.tuning, s.rng)
	s.Player = object.NewPlayer(s.Chosen, s.World)
	s.Fishes = nil
	s.Endgame = 0
	s.Giant = false
	s.Paused = false
	s.rescued = false
	s.pipeHint = false
	s.Phase = PhasePlaying
	s.setLayer(audio.LayerSurface)
	s.logger.Info("game started", "character", s.Chosen)
}

// restart returns to the character select screen.
func (s *Session) restart() {
	s.Phase = PhaseCharacterSelect
	s.Chosen = 0
	s.Hovered = 0
	s.World = nil
	s.Player = nil
	s.Fishes = nil
	s.logger.Info("back to character select")
}

// finish ends play in the given phase.
func (s *Session) finish(p Phase) {
	s.Phase = p
	if p == PhaseLost {
		s.logger.Info("game lost", "cause", s.Player.LastDamageCause, "fish", s.World.FishKilled)
		return
	}
	s.logger.Info("game won", "fish", s.World.FishKilled, "frames", s.World.Frames)
}
