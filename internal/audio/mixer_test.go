package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

const testRate = beep.SampleRate(8000)

func peak(t *testing.T, s beep.Streamer, n int) float64 {
	t.Helper()
	samples := make([][2]float64, n)
	got, ok := s.Stream(samples)
	if !ok || got != n {
		t.Fatalf("Stream returned %d,%v", got, ok)
	}
	var max float64
	for _, smp := range samples {
		for _, v := range smp {
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
	}
	return max
}

func writeWav(t *testing.T, d time.Duration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "music.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	tone, err := generators.SineTone(testRate, 440)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: testRate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Take(testRate.N(d), tone), format); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMixerPlaysActiveLayer(t *testing.T) {
	m, err := NewMixer(testRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	if m.ActiveLayer() != LayerSurface {
		t.Fatalf("initial layer = %v", m.ActiveLayer())
	}
	if p := peak(t, m.Streamer(), 400); p == 0 {
		t.Fatal("active layer should be audible")
	}

	m.SetLayer(LayerUnderwater)
	if m.ActiveLayer() != LayerUnderwater {
		t.Fatalf("layer = %v", m.ActiveLayer())
	}
	m.SetLayer(Layer(9))
	if m.ActiveLayer() != LayerUnderwater {
		t.Fatal("unknown layer should be ignored")
	}
}

func TestMixerMasterVolume(t *testing.T) {
	m, err := NewMixer(testRate, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	loud := peak(t, m.Streamer(), 400)

	m.SetMasterVolume(0)
	if p := peak(t, m.Streamer(), 400); p != 0 {
		t.Fatalf("volume 0 peak = %v", p)
	}

	m.SetMasterVolume(3)
	if m.MasterVolume() != 1 {
		t.Fatalf("volume = %v, want clamp to 1", m.MasterVolume())
	}
	if p := peak(t, m.Streamer(), 400); p <= loud {
		t.Fatalf("full volume peak %v should exceed half volume %v", p, loud)
	}
}

func TestMixerClose(t *testing.T) {
	m, err := NewMixer(testRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if p := peak(t, m.Streamer(), 100); p != 0 {
		t.Fatalf("closed mixer peak = %v", p)
	}
}

func TestLoadMusic(t *testing.T) {
	m, err := NewMixer(testRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	path := writeWav(t, 3*SegmentLength+time.Second)
	if err := <-m.LoadMusic(path); err != nil {
		t.Fatalf("LoadMusic: %v", err)
	}
	if p := peak(t, m.Streamer(), 400); p == 0 {
		t.Fatal("loaded music should be audible")
	}
}

func TestLoadMusicErrors(t *testing.T) {
	m, err := NewMixer(testRate, 1)
	if err != nil {
		t.Fatal(err)
	}

	err = <-m.LoadMusic(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}

	err = <-m.LoadMusic(writeWav(t, SegmentLength))
	if !errors.Is(err, ErrMusicTooShort) {
		t.Fatalf("short file: %v", err)
	}
}

func TestSilent(t *testing.T) {
	var s Silent
	s.SetLayer(LayerSubmarine)
	s.SetMasterVolume(1)
	if err := <-s.LoadMusic("anything.wav"); !errors.Is(err, ErrNoOutput) {
		t.Fatalf("LoadMusic = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLayerString(t *testing.T) {
	for l, want := range map[Layer]string{
		LayerSurface:    "surface",
		LayerSubmarine:  "submarine",
		LayerUnderwater: "underwater",
		0:               "unknown",
	} {
		if got := l.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(l), got, want)
		}
	}
}
