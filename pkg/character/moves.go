// Package character simulates the collaborators an avatar controller needs:
// a locally controlled character with simple physics, remote puppets that
// replay scripted moves, and a rig that owns the playback engine.
package character

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Move is a scripted motion. Evaluate returns the root offset from where
// the move started.
type Move interface {
	// Name returns the move identifier (for logging).
	Name() string

	// Duration returns the total duration of the move.
	Duration() time.Duration

	// Evaluate returns the offset at time t since move start.
	Evaluate(t time.Duration) r3.Vec

	// IsComplete returns true when the move has finished.
	IsComplete(t time.Duration) bool
}

// ============================================================
// Hold - Stands still
// ============================================================

// Hold keeps the root where it is for D.
type Hold struct {
	D time.Duration
}

func (m Hold) Name() string { return "hold" }
func (m Hold) Duration() time.Duration { return m.D }
func (m Hold) Evaluate(time.Duration) r3.Vec { return r3.Vec{} }
func (m Hold) IsComplete(t time.Duration) bool { return t >= m.D }

// ============================================================
// Walk - Straight line at constant speed
// ============================================================

// Walk travels by Offset at Speed units per second.
type Walk struct {
	Offset r3.Vec
	Speed  float64
}

// Name includes the speed so logs tell a walk from a run.
func (m Walk) Name() string {
	return fmt.Sprintf("walk(%.1f)", m.Speed)
}

// Duration is the travel time. A non-positive speed finishes at once.
func (m Walk) Duration() time.Duration {
	if m.Speed <= 0 {
		return 0
	}
	return time.Duration(r3.Norm(m.Offset) / m.Speed * float64(time.Second))
}

// Evaluate interpolates along the line, clamped at the end.
func (m Walk) Evaluate(t time.Duration) r3.Vec {
	d := m.Duration()
	if d <= 0 || t >= d {
		return m.Offset
	}
	return r3.Scale(float64(t)/float64(d), m.Offset)
}

func (m Walk) IsComplete(t time.Duration) bool {
	return t >= m.Duration()
}

// ============================================================
// Hop - Ballistic jump in place
// ============================================================

// Hop rises to Height and lands again over D.
type Hop struct {
	Height float64
	D      time.Duration
}

func (m Hop) Name() string { return "hop" }
func (m Hop) Duration() time.Duration { return m.D }

// Evaluate follows a parabola that is zero at both ends.
func (m Hop) Evaluate(t time.Duration) r3.Vec {
	if m.D <= 0 || t <= 0 || t >= m.D {
		return r3.Vec{}
	}
	s := float64(t) / float64(m.D)
	return r3.Vec{Y: 4 * m.Height * s * (1 - s)}
}

func (m Hop) IsComplete(t time.Duration) bool {
	return t >= m.D
}

// ============================================================
// Circle - Walks once around a circle
// ============================================================

// Circle walks once around a circle of Radius centered Radius units along
// +X from the start, taking Period.
type Circle struct {
	Radius float64
	Period time.Duration
}

func (m Circle) Name() string { return "circle" }
func (m Circle) Duration() time.Duration { return m.Period }

func (m Circle) Evaluate(t time.Duration) r3.Vec {
	if m.Period <= 0 || t >= m.Period {
		return r3.Vec{}
	}
	a := 2 * math.Pi * float64(t) / float64(m.Period)
	return r3.Vec{X: m.Radius - m.Radius*math.Cos(a), Z: m.Radius * math.Sin(a)}
}

func (m Circle) IsComplete(t time.Duration) bool {
	return t >= m.Period
}
