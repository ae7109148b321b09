package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the difficulty and presentation knobs of a session.
// Zero values in a YAML file keep the defaults.
type Tuning struct {
	Hardness        int     `yaml:"hardness"`          // Fish kills per difficulty level
	Volume          float64 `yaml:"volume"`            // Master music volume, 0..1
	BreathHurtRate  int     `yaml:"breath_hurt_rate"`  // Submerged frames per point of water damage
	FishDamageTicks int     `yaml:"fish_damage_ticks"` // Fish-contact frames per point of submarine damage
	FishDeathFrames int     `yaml:"fish_death_frames"` // Frames a killed fish shows its hit sprite
	FishSpawnChance int     `yaml:"fish_spawn_chance"` // One spawn in N frames
	Debug           bool    `yaml:"debug"`             // Draw collision bounds
	Seed            int64   `yaml:"seed"`              // Random seed, 0 picks one from the clock
	Music           string  `yaml:"music"`             // Optional WAV file with three 9.6s layers
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() Tuning {
	return Tuning{
		Hardness:        8,
		Volume:          0.4,
		BreathHurtRate:  200,
		FishDamageTicks: 25,
		FishDeathFrames: 1,
		FishSpawnChance: 80,
	}
}

// Level2 is the kill count after which large fish spawn.
func (t Tuning) Level2() int {
	return t.Hardness
}

// Level3 is the kill count after which fish stop spawning and the endgame
// can begin.
func (t Tuning) Level3() int {
	return t.Hardness * 2
}

// Validate checks every field for a playable range.
func (t Tuning) Validate() error {
	switch {
	case t.Hardness < 1:
		return fmt.Errorf("%w: hardness must be at least 1, got %d", ErrInvalidTuning, t.Hardness)
	case t.Volume < 0 || t.Volume > 1:
		return fmt.Errorf("%w: volume must be within 0..1, got %v", ErrInvalidTuning, t.Volume)
	case t.BreathHurtRate < 1:
		return fmt.Errorf("%w: breath_hurt_rate must be positive, got %d", ErrInvalidTuning, t.BreathHurtRate)
	case t.FishDamageTicks < 1:
		return fmt.Errorf("%w: fish_damage_ticks must be positive, got %d", ErrInvalidTuning, t.FishDamageTicks)
	case t.FishDeathFrames < 1:
		return fmt.Errorf("%w: fish_death_frames must be positive, got %d", ErrInvalidTuning, t.FishDeathFrames)
	case t.FishSpawnChance < 1:
		return fmt.Errorf("%w: fish_spawn_chance must be positive, got %d", ErrInvalidTuning, t.FishSpawnChance)
	}
	return nil
}

// ParseTuning decodes YAML over the defaults and validates the result.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// LoadTuning reads a tuning file. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return ParseTuning(data)
}
