package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func runClient(t *testing.T, c *Client, ctx context.Context) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop")
	}
}

func TestClientQuitsOnKey(t *testing.T) {
	var out bytes.Buffer
	a := &fakeAudio{}
	tuning := testTuning()
	tuning.Music = "music.wav"
	c := NewClient(bufio.NewReader(strings.NewReader("q")), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 40),
		Audio:        a,
		Tuning:       tuning,
		Rand:         rand.New(rand.NewSource(1)),
	})

	runClient(t, c, context.Background())

	got := out.String()
	if !strings.HasPrefix(got, "\033[?25l") {
		t.Errorf("output should start by hiding the cursor: %q", got[:min(len(got), 20)])
	}
	if !strings.Contains(got, "\033[?1003h") || !strings.Contains(got, "\033[?1003l") {
		t.Error("mouse reporting should be enabled and restored")
	}
	if !strings.Contains(got, "\033[?25h") {
		t.Error("cursor should be shown again")
	}
	if len(a.loaded) != 1 || a.loaded[0] != "music.wav" {
		t.Errorf("loaded %v", a.loaded)
	}
	if a.volume() != 0 {
		t.Errorf("music should be silenced on exit, volume %v", a.volume())
	}
}

func TestClientStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(80, 40),
		Tuning:       testTuning(),
	})
	time.AfterFunc(50*time.Millisecond, cancel)

	runClient(t, c, ctx)
	if c.Session().Phase != PhaseCharacterSelect {
		t.Fatalf("phase = %v", c.Session().Phase)
	}
}

func TestClientShutdownNotice(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	shutdown := make(chan struct{})
	close(shutdown)
	c := NewClient(bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc:  fixedSize(80, 40),
		Tuning:        testTuning(),
		Shutdown:      shutdown,
		ShutdownGrace: 30 * time.Millisecond,
	})

	runClient(t, c, context.Background())
	if !c.shuttingDown {
		t.Fatal("client should have shown the shutdown notice")
	}
}

func TestClientSelectsAndPlays(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(100, 50),
		Tuning:       testTuning(),
	})

	go func() {
		defer pw.Close()
		io.WriteString(pw, "2")
		time.Sleep(100 * time.Millisecond)
		io.WriteString(pw, "\r")
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	runClient(t, c, ctx)
	s := c.Session()
	if s.Phase != PhasePlaying || s.Player == nil || s.Player.Character != 2 {
		t.Fatalf("phase=%v player=%v", s.Phase, s.Player)
	}
	if s.World.Frames == 0 {
		t.Fatal("the game should have advanced")
	}
}

func TestClientResize(t *testing.T) {
	var out bytes.Buffer
	w, h := 80, 40
	c := NewClient(bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return w, h, nil },
		Tuning:       testTuning(),
	})

	w, h = 300, 120
	c.updateScreen()
	if c.canvas.TerminalWidth() != 160 || c.canvas.TerminalHeight() != 80 {
		t.Fatalf("canvas %dx%d, want clamped 160x80", c.canvas.TerminalWidth(), c.canvas.TerminalHeight())
	}
	if c.canvas.OffsetCol() != 70 || c.canvas.OffsetRow() != 20 {
		t.Fatalf("offset %d,%d", c.canvas.OffsetCol(), c.canvas.OffsetRow())
	}
	if !strings.Contains(out.String(), "\033[2J") {
		t.Fatal("resize should clear the terminal")
	}
}
