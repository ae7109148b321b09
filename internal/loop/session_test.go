package loop

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/draw"
	"github.com/tomz197/risingtide/internal/input"
	"github.com/tomz197/risingtide/internal/object"
	"github.com/tomz197/risingtide/internal/physics"
	"github.com/tomz197/risingtide/internal/sprite"
)

const frameTime = 16 * time.Millisecond

// fakeAudio records what the session asked of the music backend.
type fakeAudio struct {
	layers  []audio.Layer
	volumes []float64
	loaded  []string
	closed  bool
}

func (a *fakeAudio) LoadMusic(path string) <-chan error {
	a.loaded = append(a.loaded, path)
	ch := make(chan error, 1)
	ch <- nil
	close(ch)
	return ch
}
func (a *fakeAudio) SetLayer(l audio.Layer)    { a.layers = append(a.layers, l) }
func (a *fakeAudio) SetMasterVolume(v float64) { a.volumes = append(a.volumes, v) }
func (a *fakeAudio) Close() error {
	a.closed = true
	return nil
}

func (a *fakeAudio) volume() float64 {
	if len(a.volumes) == 0 {
		return -1
	}
	return a.volumes[len(a.volumes)-1]
}

func (a *fakeAudio) layer() audio.Layer {
	if len(a.layers) == 0 {
		return 0
	}
	return a.layers[len(a.layers)-1]
}

// recorder is a Renderer that remembers what was drawn.
type recorder struct {
	refs    []sprite.Ref
	sprites []string
	texts   []string
	bounds  int
	cursor  string
}

func (r *recorder) DrawSprite(ref sprite.Ref, _, _, _ float64) {
	r.refs = append(r.refs, ref)
	r.sprites = append(r.sprites, ref.Name)
}

func (r *recorder) FillRect(physics.Rect, string, float64) {}
func (r *recorder) Flood(string, float64)                  {}
func (r *recorder) Clear()                                 {}
func (r *recorder) Width() float64                         { return object.WorldWidth }
func (r *recorder) Height() float64                        { return object.WorldHeight }
func (r *recorder) CenterX(w float64) float64              { return object.WorldWidth/2 - w*object.Scale/2 }
func (r *recorder) CenterY(h float64) float64              { return object.WorldHeight/2 - h*object.Scale/2 }
func (r *recorder) Cursor(style string)                    { r.cursor = style }
func (r *recorder) DrawBounds(physics.Rect)                { r.bounds++ }
func (r *recorder) Text(_, _ float64, s, _ string)         { r.texts = append(r.texts, s) }
func (r *recorder) TextCentered(_ float64, s, _ string)    { r.texts = append(r.texts, s) }

func (r *recorder) hasText(sub string) bool {
	for _, t := range r.texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

// testTuning disables random fish so tests control every fish.
func testTuning() config.Tuning {
	t := config.DefaultTuning()
	t.FishSpawnChance = 1 << 30
	return t
}

func newTestSession(t *testing.T) (*Session, *fakeAudio) {
	t.Helper()
	a := &fakeAudio{}
	return NewSession(testTuning(), rand.New(rand.NewSource(1)), a, nil), a
}

// playingSession skips the select screen with character 1.
func playingSession(t *testing.T) (*Session, *fakeAudio) {
	t.Helper()
	s, a := newTestSession(t)
	s.choose(1)
	s.begin()
	return s, a
}

func step(t *testing.T, s *Session, in input.Set) {
	t.Helper()
	if err := s.Update(Frame{Delta: frameTime, Input: in}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func digit(n int) input.Set {
	in := input.Empty()
	in.Number = n
	return in
}

func TestNewSessionShufflesSlots(t *testing.T) {
	s, a := newTestSession(t)
	if s.Phase != PhaseCharacterSelect {
		t.Fatalf("phase = %v", s.Phase)
	}
	for _, want := range characterSlots {
		if !slices.Contains(s.Slots[:], want) {
			t.Fatalf("slot %+v missing from %+v", want, s.Slots)
		}
	}
	if a.volume() != testTuning().Volume {
		t.Fatalf("initial volume = %v", a.volume())
	}
}

func TestSelectWithKeyboard(t *testing.T) {
	s, a := newTestSession(t)

	step(t, s, input.Of(input.ActionEnter))
	if s.Phase != PhaseCharacterSelect {
		t.Fatal("enter must not start before a character is chosen")
	}

	step(t, s, digit(3))
	if s.Chosen != 3 {
		t.Fatalf("Chosen = %d, want 3", s.Chosen)
	}
	step(t, s, input.Of(input.ActionEnter))
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", s.Phase)
	}
	if s.Player == nil || s.Player.Character != 3 {
		t.Fatal("player should use the chosen character")
	}
	if a.layer() != audio.LayerSurface {
		t.Fatalf("layer = %v", a.layer())
	}
}

func TestSelectWithPointer(t *testing.T) {
	s, _ := newTestSession(t)
	target := s.Slots[2]

	hover := Frame{Input: input.Empty(), Pointer: Pointer{X: target.X, Y: target.Y, Valid: true}}
	if err := s.Update(hover); err != nil {
		t.Fatal(err)
	}
	if s.Hovered != 3 || s.Chosen != 0 {
		t.Fatalf("hovered=%d chosen=%d", s.Hovered, s.Chosen)
	}
	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if r.cursor != draw.CursorPointer {
		t.Fatalf("cursor = %q over a character", r.cursor)
	}

	click := hover
	click.Pointer.Down = true
	if err := s.Update(click); err != nil {
		t.Fatal(err)
	}
	if s.Chosen != 3 {
		t.Fatalf("Chosen = %d, want 3", s.Chosen)
	}

	box := startBox()
	start := Frame{Input: input.Empty(), Pointer: Pointer{X: box.X + 5, Y: box.Y + 5, Valid: true, Down: true}}
	if err := s.Update(start); err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v after clicking start", s.Phase)
	}
}

func TestStartBoxIsCentred(t *testing.T) {
	if got := startBox(); got != physics.NewRect(198, 232, 104, 36) {
		t.Fatalf("startBox = %+v", got)
	}
}

func TestMuteAndPause(t *testing.T) {
	s, a := newTestSession(t)

	step(t, s, input.Of(input.ActionEsc))
	if s.Paused {
		t.Fatal("pause only applies while playing")
	}

	step(t, s, input.Of(input.ActionMute))
	if !s.Muted || a.volume() != 0 {
		t.Fatalf("muted=%v volume=%v", s.Muted, a.volume())
	}
	step(t, s, input.Empty())
	step(t, s, input.Of(input.ActionMute))
	if s.Muted || a.volume() != testTuning().Volume {
		t.Fatalf("unmute: muted=%v volume=%v", s.Muted, a.volume())
	}
}

func TestPauseFreezesTheWorld(t *testing.T) {
	s, a := playingSession(t)
	step(t, s, input.Empty())

	step(t, s, input.Of(input.ActionEsc))
	if !s.Paused || a.volume() != 0 {
		t.Fatalf("paused=%v volume=%v", s.Paused, a.volume())
	}
	frames, water, y := s.World.Frames, s.World.WaterLevel, s.Player.Y
	for i := 0; i < 30; i++ {
		if err := s.Update(Frame{Delta: time.Second, Input: input.Empty()}); err != nil {
			t.Fatal(err)
		}
	}
	if s.World.Frames != frames || s.World.WaterLevel != water || s.Player.Y != y || s.World.Ticks != 0 {
		t.Fatal("paused frames must not advance the game")
	}

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !r.hasText("PAUSED") {
		t.Fatalf("pause banner missing: %q", r.texts)
	}

	step(t, s, input.Of(input.ActionEsc))
	if s.Paused || a.volume() != testTuning().Volume {
		t.Fatalf("resume: paused=%v volume=%v", s.Paused, a.volume())
	}
	step(t, s, input.Empty())
	if s.World.Frames <= frames {
		t.Fatal("play should continue after resuming")
	}
}

func TestPlatformDestroyedOnce(t *testing.T) {
	s, _ := playingSession(t)
	w, p := s.World, s.Player
	platformY := p.Platform.Y

	w.WaterLevel = w.Height - platformY - 2
	step(t, s, input.Empty())
	if p.Platform == nil {
		t.Fatal("platform should survive while the water is below it")
	}

	w.WaterLevel = w.Height - platformY + 2
	step(t, s, input.Empty())
	if p.Platform != nil {
		t.Fatal("platform should be destroyed once the water passes it")
	}

	w.WaterLevel = 0
	for i := 0; i < 10; i++ {
		step(t, s, input.Empty())
	}
	if p.Platform != nil {
		t.Fatal("platform must never come back")
	}
}

func TestBoardSubmarine(t *testing.T) {
	s, a := playingSession(t)
	p := s.Player
	p.Platform = nil
	p.X, p.Y = -40, 436

	step(t, s, input.Empty())
	if p.Mode != object.Submarine {
		t.Fatalf("mode = %v, want submarine", p.Mode)
	}
	if p.X != -50 {
		t.Fatalf("x = %v, want the dock position", p.X)
	}
	if a.layer() != audio.LayerSubmarine {
		t.Fatalf("layer = %v", a.layer())
	}

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.Join(r.sprites, ","), "submarine"); n != 2 {
		t.Fatalf("want the boarded sub and its cover only, drew %v", r.sprites)
	}
}

// armedSub puts the player in a submarine at (x, y) in deep water.
func armedSub(s *Session, x, y float64) *object.Player {
	s.World.WaterLevel = 400
	p := s.Player
	p.Platform = nil
	p.BoardSubmarine(x, y)
	return p
}

func TestFishKillCountedOnce(t *testing.T) {
	s, _ := playingSession(t)
	w := s.World
	p := armedSub(s, 100, 300)

	fire := input.Of(input.ActionSpace)
	step(t, s, fire)
	step(t, s, input.Empty())
	step(t, s, fire)
	for i := 0; i < 8; i++ {
		step(t, s, input.Empty())
	}
	if len(p.Missiles) != 2 {
		t.Fatalf("fired %d missiles, want 2", len(p.Missiles))
	}

	back := p.Missiles[1]
	f := object.NewFish(w)
	f.X, f.Y, f.Direction, f.Size = back.X-10, back.Y-20, object.Left, object.FishLarge
	s.Fishes = []*object.Fish{f}

	step(t, s, input.Empty())
	if w.FishKilled != 1 {
		t.Fatalf("FishKilled = %d after two missiles hit one fish, want 1", w.FishKilled)
	}
	if !f.Dying() {
		t.Fatal("fish should be dying")
	}
	if len(s.Fishes) != 1 {
		t.Fatal("the fish must stay for the frame it was hit")
	}
	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	drewHit := false
	for _, ref := range r.refs {
		if ref.Name == "fish2" && ref.FrameX == 5 {
			drewHit = true
		}
	}
	if !drewHit {
		t.Fatal("the killed fish should be drawn with its hit sprite")
	}
	for _, m := range p.Missiles {
		if m.HitCount != object.MissileHit {
			t.Fatalf("missile hit count = %d", m.HitCount)
		}
	}

	for i := 0; i < 5; i++ {
		step(t, s, input.Empty())
	}
	if w.FishKilled != 1 {
		t.Fatalf("FishKilled = %d later, want 1", w.FishKilled)
	}
	if len(s.Fishes) != 0 || len(p.Missiles) != 0 {
		t.Fatalf("fish=%d missiles=%d should be gone", len(s.Fishes), len(p.Missiles))
	}
}

func TestMissileExplodesOnPipe(t *testing.T) {
	s, _ := playingSession(t)
	p := armedSub(s, 330, 450)

	step(t, s, input.Of(input.ActionSpace))
	if len(p.Missiles) != 1 {
		t.Fatalf("fired %d missiles", len(p.Missiles))
	}
	m := p.Missiles[0]

	impact := false
	for i := 0; i < 10 && len(p.Missiles) > 0; i++ {
		step(t, s, input.Empty())
		impact = impact || m.Impact()
	}
	if !impact {
		t.Fatal("missile should show its impact on the pipe")
	}
	if len(p.Missiles) != 0 {
		t.Fatal("spent missile should be removed")
	}
}

func TestFishBiteKillsSwimmer(t *testing.T) {
	s, _ := playingSession(t)
	w, p := s.World, s.Player
	p.Platform = nil
	p.Y = 250
	w.WaterLevel = 300
	step(t, s, input.Empty())
	if p.Mode != object.Swimming {
		t.Fatalf("mode = %v, want swimming", p.Mode)
	}

	f := object.NewFish(w)
	f.X, f.Y, f.Direction = p.X, p.Y-5, object.Left
	s.Fishes = []*object.Fish{f}

	step(t, s, input.Empty())
	if !p.HitByFish {
		t.Fatal("bite should flag the player for the next update")
	}
	step(t, s, input.Empty())
	if s.Phase != PhaseLost || p.LastDamageCause != object.CauseFish {
		t.Fatalf("phase=%v cause=%v", s.Phase, p.LastDamageCause)
	}

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !r.hasText("a fish got you") {
		t.Fatalf("lost screen texts: %q", r.texts)
	}
}

func TestLostAndRestart(t *testing.T) {
	s, _ := playingSession(t)
	s.Player.Damage(object.MaxHealth, object.CauseWater)

	step(t, s, input.Empty())
	if s.Phase != PhaseLost {
		t.Fatalf("phase = %v, want lost", s.Phase)
	}
	frames := s.World.Frames
	step(t, s, input.Empty())
	if s.World.Frames != frames {
		t.Fatal("lost session must not advance")
	}

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !r.hasText("you ran out of breath") {
		t.Fatalf("lost screen texts: %q", r.texts)
	}

	step(t, s, input.Of(input.ActionEnter))
	if s.Phase != PhaseCharacterSelect || s.Chosen != 0 || s.Player != nil {
		t.Fatalf("restart: phase=%v chosen=%d", s.Phase, s.Chosen)
	}
}

func TestEndgameScript(t *testing.T) {
	s, a := playingSession(t)
	w := s.World
	w.FishKilled = w.Tuning.Level3() + 1
	w.WaterLevel = 300
	s.Player.Platform = nil

	s.Fishes = []*object.Fish{object.NewFish(w)}
	step(t, s, input.Empty())
	if s.Endgame != 0 {
		t.Fatal("endgame waits for the last fish to leave")
	}
	s.Fishes = nil

	step(t, s, input.Empty())
	if s.Endgame != 1 || !s.Giant || s.GiantX != 499 {
		t.Fatalf("endgame=%d giant=%v x=%v", s.Endgame, s.Giant, s.GiantX)
	}

	s.Endgame = 150
	before := w.WaterLevel
	step(t, s, input.Empty())
	if s.GiantX != 400 || w.WaterLevel >= before {
		t.Fatalf("waiting: x=%v water %v -> %v", s.GiantX, before, w.WaterLevel)
	}
	hz := s.hazards()
	if len(hz) != 3 || hz[1] != physics.NewRect(400, 300, 200, 90) || hz[2] != physics.NewRect(400, 440, 200, 90) {
		t.Fatalf("hazards = %+v", hz)
	}

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(r.sprites, "fish3") {
		t.Fatal("giant fish should be drawn")
	}

	s.Endgame = 250
	w.WaterLevel = 0
	step(t, s, input.Empty())
	if s.GiantX != 451 {
		t.Fatalf("leaving: x=%v, want 451", s.GiantX)
	}
	if s.Player.Mode != object.OnGiantSub {
		t.Fatalf("mode = %v, player should be rescued", s.Player.Mode)
	}
	if a.layer() != audio.LayerSurface {
		t.Fatalf("layer = %v", a.layer())
	}
	if s.Phase != PhaseWon {
		t.Fatalf("phase = %v, want won", s.Phase)
	}

	r = &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !r.hasText("THE TIDE IS OUT") {
		t.Fatalf("won screen texts: %q", r.texts)
	}
}

func TestLayerFor(t *testing.T) {
	w := object.NewWorld(testTuning(), rand.New(rand.NewSource(1)))
	tests := []struct {
		name  string
		setup func(p *object.Player)
		want  audio.Layer
	}{
		{"walking", func(p *object.Player) {}, audio.LayerSurface},
		{"floating", func(p *object.Player) { p.Mode, p.InWater = object.Swimming, true }, audio.LayerSurface},
		{"diving", func(p *object.Player) { p.Mode, p.InWater, p.HeadUnderWater = object.Swimming, true, true }, audio.LayerUnderwater},
		{"submarine", func(p *object.Player) { p.Mode, p.InWater, p.HeadUnderWater = object.Submarine, true, true }, audio.LayerSubmarine},
		{"rescued", func(p *object.Player) { p.Mode = object.OnGiantSub }, audio.LayerSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := object.NewPlayer(1, w)
			tt.setup(p)
			if got := layerFor(p); got != tt.want {
				t.Fatalf("layerFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawPlayingScene(t *testing.T) {
	s, _ := playingSession(t)
	step(t, s, input.Empty())

	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"button", "submarine", "pipe", "walking", "heart", "score"} {
		if !slices.Contains(r.sprites, name) {
			t.Errorf("%s not drawn: %v", name, r.sprites)
		}
	}
	if !r.hasText("fish 0") {
		t.Errorf("kill counter missing: %q", r.texts)
	}
	if r.cursor != draw.CursorDefault {
		t.Errorf("cursor = %q while playing", r.cursor)
	}
}

func TestPipeHint(t *testing.T) {
	s, _ := playingSession(t)
	p := s.Player
	p.Platform = nil
	p.X, p.Y = 390, 436

	step(t, s, input.Empty())
	r := &recorder{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	if !r.hasText("pipe") {
		t.Fatalf("pipe hint missing: %q", r.texts)
	}
}
