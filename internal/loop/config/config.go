// Package config centralizes the fixed session parameters.
package config

import "time"

// View resolution - the visible play field in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 500
	ViewHeight = 500
)

// Character select
const (
	CharacterBoxWidth  = 48
	CharacterBoxHeight = 80
	StartButtonWidth   = 52 // Sprite pixels
	StartButtonHeight  = 18
)

// Hazards in world coordinates
const (
	SubmarineX     = -56 // Where the submarine waits before it is boarded
	SubmarineY     = 460
	SubmarineDockX = -50 // Where the player is moved on boarding
	PipeX          = 400
	PipeY          = 476
	PipeSize       = 24
	GiantFishY     = 300
	GiantFishBoxW  = 200
	GiantFishBoxH  = 90
	GiantFishLower = 440 // Top of the giant fish's lower hitbox
)

// Endgame script
const (
	DistanceToPipe = 100 // Endgame frames the giant fish swims in
	EndgameDrain   = 2   // Water drained per endgame frame once the fish waits
	EndgameWin     = 200 // Endgame frames before the fish leaves
	RescueLevel    = 20  // Water level below which the player is rescued
	FishSpawnLevel = 80  // Water level above which fish spawn
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
