// Package kinematics turns the world-position history of an avatar root into
// per-frame motion samples: planar speed, vertical speed and a grounded flag.
//
// Y is up. Speeds are raw per-frame displacements, not normalized by time.
package kinematics

import "gonum.org/v1/gonum/spatial/r3"

// LayerMask selects which collision layers a ground query considers.
type LayerMask uint32

const (
	LayerDefault LayerMask = 1 << iota
	LayerGround
	LayerPlatform
	LayerAvatar
)

// LayerAll matches every layer.
const LayerAll LayerMask = ^LayerMask(0)

// Contains reports whether m includes any layer of other.
func (m LayerMask) Contains(other LayerMask) bool {
	return m&other != 0
}

// Down is the direction of the ground query.
var Down = r3.Vec{Y: -1}

// GroundProbe answers downward directional queries against the collision world.
type GroundProbe interface {
	// CastDown reports whether anything on layers is hit within maxDistance
	// below origin.
	CastDown(origin r3.Vec, maxDistance float64, layers LayerMask) bool
}

// GroundProbeFunc adapts a function to GroundProbe.
type GroundProbeFunc func(origin r3.Vec, maxDistance float64, layers LayerMask) bool

// CastDown calls f.
func (f GroundProbeFunc) CastDown(origin r3.Vec, maxDistance float64, layers LayerMask) bool {
	return f(origin, maxDistance, layers)
}

// Sample is the motion measured over one frame.
type Sample struct {
	// MovementSpeed is the planar displacement magnitude, minus any moving
	// platform contribution for the locally controlled avatar.
	MovementSpeed float64 `json:"movement_speed"`

	// VerticalSpeed is the vertical displacement.
	VerticalSpeed float64 `json:"vertical_speed"`

	// Grounded is the result of the ground probe.
	Grounded bool `json:"grounded"`
}

// Config holds the ground probe geometry.
type Config struct {
	// RayOffset lifts the cast origin above the root so minor floor
	// penetration still registers as a hit.
	RayOffset float64

	// ElevationOffset is the clearance subtracted from RayOffset to get the
	// cast distance.
	ElevationOffset float64

	// GroundLayers filters what counts as ground.
	GroundLayers LayerMask
}

// DefaultConfig returns the probe geometry used for humanoid avatars.
func DefaultConfig() Config {
	return Config{
		RayOffset:       3.0,
		ElevationOffset: 0.6,
		GroundLayers:    LayerDefault | LayerGround | LayerPlatform,
	}
}

// FeetConfig is probe geometry for a root placed at the feet: the ray starts
// 1 unit up and reaches 0.05 below the root.
func FeetConfig() Config {
	return Config{
		RayOffset:       1.0,
		ElevationOffset: -0.05,
		GroundLayers:    LayerDefault | LayerGround | LayerPlatform,
	}
}

// CastDistance is how far below the lifted origin the probe reaches.
func (c Config) CastDistance() float64 {
	return c.RayOffset - c.ElevationOffset
}
