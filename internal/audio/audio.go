// Package audio mixes the three looping music layers of the game. The layer
// that plays follows what the player is doing; only one is audible at a time.
package audio

import (
	"errors"
)

// Layer selects one of the music loops.
type Layer int

const (
	LayerSurface    Layer = 1 // On land, at the surface, or on the giant sub
	LayerSubmarine  Layer = 2
	LayerUnderwater Layer = 3 // Swimming with the head under water

	layerCount = 3
)

func (l Layer) valid() bool {
	return l >= LayerSurface && l <= LayerUnderwater
}

func (l Layer) String() string {
	switch l {
	case LayerSurface:
		return "surface"
	case LayerSubmarine:
		return "submarine"
	case LayerUnderwater:
		return "underwater"
	}
	return "unknown"
}

// ErrNoOutput is reported by Silent when asked to load music.
var ErrNoOutput = errors.New("no audio output")

// Silent drops all audio. Used where no speaker is available, such as SSH
// sessions.
type Silent struct{}

// LoadMusic reports ErrNoOutput without touching the file.
func (Silent) LoadMusic(string) <-chan error {
	ch := make(chan error, 1)
	ch <- ErrNoOutput
	close(ch)
	return ch
}

// SetLayer does nothing.
func (Silent) SetLayer(Layer) {}

// SetMasterVolume does nothing.
func (Silent) SetMasterVolume(float64) {}

// Close does nothing.
func (Silent) Close() error { return nil }
