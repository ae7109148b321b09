package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the speaker output rate.
const SampleRate = beep.SampleRate(44100)

// SegmentLength is the length of each layer in the music file. Layer n
// loops over [(n-1)*SegmentLength, n*SegmentLength).
const SegmentLength = 9600 * time.Millisecond

// ErrMusicTooShort is returned when the file cannot hold all three layers.
var ErrMusicTooShort = errors.New("music shorter than three segments")

// droneFrequencies are the synthesized fallback tones per layer, C4, G3 and C3.
var droneFrequencies = [layerCount]float64{261.63, 196.00, 130.81}

// droneGain scales the fallback tones down to a background level.
const droneGain = -0.9

// layer is one music loop. source is swapped once the music file loads.
type layer struct {
	source *beep.Ctrl
	volume *effects.Volume
}

// Mixer plays the music layers through the speaker. All methods are safe to
// call from the game loop while the speaker goroutine is streaming.
type Mixer struct {
	rate   beep.SampleRate
	layers [layerCount]layer
	mixer  *beep.Mixer
	master *effects.Volume
	out    *beep.Ctrl

	// lock guards the streamer graph; speaker.Lock once started.
	lockMu  sync.Mutex
	lock    func()
	unlock  func()
	started bool

	active Layer
	volume float64
}

// NewMixer builds the layer graph with synthesized drones. Nothing plays
// until Start.
func NewMixer(rate beep.SampleRate, volume float64) (*Mixer, error) {
	m := &Mixer{
		rate:   rate,
		mixer:  &beep.Mixer{},
		active: LayerSurface,
	}
	var mu sync.Mutex
	m.lock, m.unlock = mu.Lock, mu.Unlock

	for i := range m.layers {
		tone, err := generators.SineTone(rate, droneFrequencies[i])
		if err != nil {
			return nil, fmt.Errorf("layer %d tone: %w", i+1, err)
		}
		src := &beep.Ctrl{Streamer: &effects.Gain{Streamer: tone, Gain: droneGain}}
		vol := &effects.Volume{Streamer: src, Base: 2, Silent: Layer(i+1) != m.active}
		m.layers[i] = layer{source: src, volume: vol}
		m.mixer.Add(vol)
	}

	m.master = &effects.Volume{Streamer: m.mixer, Base: 2}
	m.out = &beep.Ctrl{Streamer: m.master}
	m.SetMasterVolume(volume)
	return m, nil
}

// Start opens the speaker and begins playback.
func (m *Mixer) Start() error {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	if m.started {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	m.lock, m.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(m.out)
	m.started = true
	return nil
}

// Streamer returns the final output stream.
func (m *Mixer) Streamer() beep.Streamer {
	return m.out
}

// withLock runs fn while the streamer graph is locked.
func (m *Mixer) withLock(fn func()) {
	m.lockMu.Lock()
	lock, unlock := m.lock, m.unlock
	m.lockMu.Unlock()
	lock()
	defer unlock()
	fn()
}

// SetLayer makes l the only audible layer. Unknown layers are ignored.
func (m *Mixer) SetLayer(l Layer) {
	if !l.valid() {
		return
	}
	m.withLock(func() {
		m.active = l
		for i := range m.layers {
			m.layers[i].volume.Silent = Layer(i+1) != l
		}
	})
}

// ActiveLayer returns the audible layer.
func (m *Mixer) ActiveLayer() Layer {
	var l Layer
	m.withLock(func() { l = m.active })
	return l
}

// SetMasterVolume sets the linear output volume, clamped to 0..1. Zero
// silences the output.
func (m *Mixer) SetMasterVolume(v float64) {
	v = math.Max(0, math.Min(1, v))
	m.withLock(func() {
		m.volume = v
		if v == 0 {
			m.master.Silent = true
			return
		}
		m.master.Silent = false
		m.master.Volume = math.Log2(v)
	})
}

// MasterVolume returns the linear output volume.
func (m *Mixer) MasterVolume() float64 {
	var v float64
	m.withLock(func() { v = m.volume })
	return v
}

// LoadMusic decodes a WAV file in the background and, on success, replaces
// the synthesized drones with its three segments. The channel receives one
// result and is then closed.
func (m *Mixer) LoadMusic(path string) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- m.loadMusic(path)
	}()
	return ch
}

func (m *Mixer) loadMusic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open music: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode music: %w", err)
	}
	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	streamer.Close()

	seg := format.SampleRate.N(SegmentLength)
	if buf.Len() < layerCount*seg {
		return fmt.Errorf("%w: %s", ErrMusicTooShort, path)
	}

	var loops [layerCount]beep.Streamer
	for i := range loops {
		var s beep.Streamer = beep.Loop(-1, buf.Streamer(i*seg, (i+1)*seg))
		if format.SampleRate != m.rate {
			s = beep.Resample(4, format.SampleRate, m.rate, s)
		}
		loops[i] = s
	}

	m.withLock(func() {
		for i := range m.layers {
			m.layers[i].source.Streamer = loops[i]
		}
	})
	return nil
}

// Close stops playback.
func (m *Mixer) Close() error {
	m.withLock(func() {
		m.out.Paused = true
		m.mixer.Clear()
	})
	return nil
}
