package animator

import (
	"fmt"
	"strings"
	"time"
)

// VariantPolicy decides what preparing with an unrecognized body variant does.
type VariantPolicy int

const (
	// VariantKeepPrevious keeps the previously bound locomotion set.
	VariantKeepPrevious VariantPolicy = iota

	// VariantFail rejects the preparation with ErrUnknownVariant.
	VariantFail
)

// String returns the policy name used in configuration.
func (p VariantPolicy) String() string {
	switch p {
	case VariantKeepPrevious:
		return "keep"
	case VariantFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ParseVariantPolicy parses "keep" or "fail".
func ParseVariantPolicy(s string) (VariantPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return VariantKeepPrevious, nil
	case "fail":
		return VariantFail, nil
	default:
		return VariantKeepPrevious, fmt.Errorf("unknown variant policy %q (want keep or fail)", s)
	}
}

// Config holds all tunable parameters of the locomotion controller.
type Config struct {
	// Speed thresholds in units per second. Selection uses strict >.
	RunMinSpeed  float64
	WalkMinSpeed float64

	// Normalized playback rate per unit of speed for the walk and run clips.
	WalkSpeedFactor float64
	RunSpeedFactor  float64

	// Crossfade durations per target
	IdleTransition       time.Duration
	WalkTransition       time.Duration
	RunTransition        time.Duration
	JumpTransition       time.Duration
	FallTransition       time.Duration
	AirExitTransition    time.Duration
	ExpressionTransition time.Duration

	// MovementEpsilon is the speed above which an expression is interrupted.
	MovementEpsilon float64

	// SkeletonRoot is the node a rig must contain to be animated.
	SkeletonRoot string

	// Body variant markers, matched case-insensitively. Female is checked
	// first because the male marker is a substring of it.
	FemaleMarker string
	MaleMarker   string

	VariantPolicy VariantPolicy
}

// DefaultConfig returns the tuning used for humanoid avatars.
func DefaultConfig() Config {
	return Config{
		RunMinSpeed:  6.0,
		WalkMinSpeed: 0.1,

		WalkSpeedFactor: 0.4,
		RunSpeedFactor:  0.16, // 1 / 6.25, run clip at rate 1 on max velocity

		IdleTransition:       200 * time.Millisecond,
		WalkTransition:       150 * time.Millisecond,
		RunTransition:        150 * time.Millisecond,
		JumpTransition:       10 * time.Millisecond,
		FallTransition:       500 * time.Millisecond,
		AirExitTransition:    200 * time.Millisecond,
		ExpressionTransition: 200 * time.Millisecond,

		MovementEpsilon: 1e-6,

		SkeletonRoot: "Armature",

		FemaleMarker: "female",
		MaleMarker:   "male",

		VariantPolicy: VariantKeepPrevious,
	}
}

// ResolveVariant maps a body variant tag to a Variant.
func (c Config) ResolveVariant(tag string) Variant {
	t := strings.ToLower(tag)
	switch {
	case c.FemaleMarker != "" && strings.Contains(t, strings.ToLower(c.FemaleMarker)):
		return VariantFemale
	case c.MaleMarker != "" && strings.Contains(t, strings.ToLower(c.MaleMarker)):
		return VariantMale
	default:
		return VariantUnknown
	}
}
