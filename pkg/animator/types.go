// Package animator drives locomotion and expression animation for a humanoid
// avatar. Each frame it samples the avatar root's motion, writes it to a
// Blackboard and runs the active state of a four-state machine
// (Init, Grounded, Airborne, Expression) that issues crossfade and blend
// commands to a playback.Engine.
//
// A state may hand over to another state within the same frame; the
// hand-over is an explicit bounded loop so the pose never lags a frame
// behind the grounded flag.
package animator

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-avatar/pkg/clips"
	"github.com/teslashibe/go-avatar/pkg/frame"
	"github.com/teslashibe/go-avatar/pkg/playback"
)

// State is the active locomotion state.
type State int

const (
	StateInit State = iota
	StateGrounded
	StateAirborne
	StateExpression
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGrounded:
		return "grounded"
	case StateAirborne:
		return "airborne"
	case StateExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for c := StateInit; c <= StateExpression; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Variant is a body shape with its own locomotion clips.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantMale
	VariantFemale
)

// String returns a human-readable variant name.
func (v Variant) String() string {
	switch v {
	case VariantMale:
		return "male"
	case VariantFemale:
		return "female"
	default:
		return "unknown"
	}
}

// MarshalText encodes the variant by name.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name. Unrecognized names are unknown.
func (v *Variant) UnmarshalText(text []byte) error {
	switch string(text) {
	case "male":
		*v = VariantMale
	case "female":
		*v = VariantFemale
	default:
		*v = VariantUnknown
	}
	return nil
}

// Blackboard is the per-frame record the states read. The controller
// overwrites it in place every frame.
type Blackboard struct {
	WalkSpeedFactor            float64 `json:"walk_speed_factor"`
	RunSpeedFactor             float64 `json:"run_speed_factor"`
	MovementSpeed              float64 `json:"movement_speed"`
	VerticalSpeed              float64 `json:"vertical_speed"`
	IsGrounded                 bool    `json:"is_grounded"`
	ExpressionTriggerID        string  `json:"expression_trigger_id"`
	ExpressionTriggerTimestamp int64   `json:"expression_trigger_timestamp"`
	DeltaTime                  float64 `json:"delta_time"`
}

// LocomotionSet is the five clips bound to a body variant.
type LocomotionSet struct {
	Idle *clips.Clip `yaml:"idle"`
	Walk *clips.Clip `yaml:"walk"`
	Run  *clips.Clip `yaml:"run"`
	Jump *clips.Clip `yaml:"jump"`
	Fall *clips.Clip `yaml:"fall"`
}

// Clips returns the set in idle, walk, run, jump, fall order.
func (s LocomotionSet) Clips() []*clips.Clip {
	return []*clips.Clip{s.Idle, s.Walk, s.Run, s.Jump, s.Fall}
}

// Validate reports whether every role has a playable clip.
func (s LocomotionSet) Validate() error {
	roles := []string{"idle", "walk", "run", "jump", "fall"}
	for i, c := range s.Clips() {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s clip: %w", roles[i], err)
		}
	}
	return nil
}

// Library maps each variant to its locomotion set.
type Library map[Variant]LocomotionSet

// Transition is reported to observers whenever the active state changes.
type Transition struct {
	Avatar string `json:"avatar"`
	From   State  `json:"from"`
	To     State  `json:"to"`
}

// Target is the node whose world position the controller samples.
type Target interface {
	Position() r3.Vec
}

// Rig is the skinned hierarchy a controller binds to.
type Rig interface {
	// HasNode reports whether a node with name exists below the rig root.
	HasNode(name string) bool

	// PlaybackEngine returns the engine that animates the skeleton.
	PlaybackEngine() playback.Engine
}

// LocalCharacter is the character controller of the locally controlled avatar.
type LocalCharacter interface {
	// ID identifies the character node; a controller whose parent has this
	// id is locally owned.
	ID() string

	// MovingPlatformSpeed is the planar speed contributed by the surface the
	// character stands on.
	MovingPlatformSpeed() float64

	// OnUpdateFinished subscribes to the end of the character's movement
	// update for the frame.
	OnUpdateFinished(h frame.Handler) frame.Cancel
}

// FrameSource is the engine's own per-frame tick.
type FrameSource interface {
	Subscribe(h frame.Handler) frame.Cancel
}

// Snapshot is a read-only view of a controller.
type Snapshot struct {
	ID         string                `json:"id"`
	State      State                 `json:"state"`
	Variant    Variant               `json:"variant"`
	Owned      bool                  `json:"owned"`
	Acquired   bool                  `json:"acquired"`
	Blackboard Blackboard            `json:"blackboard"`
	Tracks     []playback.TrackState `json:"tracks,omitempty"`
}
