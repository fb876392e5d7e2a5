package sway

import "errors"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions.
type Vec2 struct {
	X, Y float64
}

// InfiniteLoops makes an animation loop until it is killed.
const InfiniteLoops = -1

// LoopType selects how an animation behaves when it starts a new loop.
type LoopType uint8

const (
	LoopRestart LoopType = iota // every loop starts again from the beginning
	LoopYoyo                    // odd loops play the timeline backwards
)

// String returns the settings-file name of the loop type.
func (l LoopType) String() string {
	switch l {
	case LoopRestart:
		return "restart"
	case LoopYoyo:
		return "yoyo"
	default:
		return "unknown"
	}
}

// UpdateType selects which per-frame pass advances an animation.
type UpdateType uint8

const (
	UpdateNormal UpdateType = iota // advanced before the game's own update
	UpdateLate                     // advanced after the game's own update
)

// String returns the settings-file name of the update type.
func (u UpdateType) String() string {
	switch u {
	case UpdateNormal:
		return "normal"
	case UpdateLate:
		return "late"
	default:
		return "unknown"
	}
}

// AxisConstraint limits a Vec2 tween to a single axis.
type AxisConstraint uint8

const (
	AxisNone AxisConstraint = iota // animate both axes
	AxisX                          // animate X only; Y keeps its start value
	AxisY                          // animate Y only; X keeps its start value
)

// NestedFailure decides what happens when an animation nested in a running
// sequence loses its target.
type NestedFailure uint8

const (
	NestedPreserveSequence NestedFailure = iota // drop the failed child, keep the sequence running
	NestedKillSequence                          // kill the whole sequence
)

var (
	// ErrTargetInvalid is returned by accessors whose target no longer exists.
	// Accessors may also return their own errors; any error kills the tween.
	ErrTargetInvalid = errors.New("sway: target invalid")

	// ErrInvalidSettings wraps every Settings validation failure.
	ErrInvalidSettings = errors.New("sway: invalid settings")
)
