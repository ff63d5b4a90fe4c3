package sim

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Leg is one step of an autopilot script.
type Leg struct {
	Input r3.Vec        // planar velocity held for the leg
	D     time.Duration // how long the leg lasts
	Jump  bool          // jump when the leg starts
}

// Driver is the part of character.Local the autopilot steers.
type Driver interface {
	SetInput(v r3.Vec)
	Jump()
}

// Autopilot replays a looping script of legs on a Driver, standing in for
// player input.
type Autopilot struct {
	driver  Driver
	legs    []Leg
	leg     int
	elapsed time.Duration
	started bool
}

// NewAutopilot creates an autopilot. An empty script holds still.
func NewAutopilot(d Driver, legs ...Leg) *Autopilot {
	return &Autopilot{driver: d, legs: legs}
}

// Leg returns the index of the active leg.
func (a *Autopilot) Leg() int {
	return a.leg
}

// Step advances the script by deltaTime seconds. It matches frame.Handler.
func (a *Autopilot) Step(deltaTime float64) {
	if len(a.legs) == 0 || deltaTime <= 0 {
		return
	}
	if !a.started {
		a.started = true
		a.begin()
	}

	a.elapsed += time.Duration(deltaTime * float64(time.Second))
	for a.elapsed >= a.legs[a.leg].D {
		a.elapsed -= a.legs[a.leg].D
		a.leg = (a.leg + 1) % len(a.legs)
		a.begin()
		if a.legs[a.leg].D <= 0 {
			break
		}
	}
}

func (a *Autopilot) begin() {
	l := a.legs[a.leg]
	a.driver.SetInput(l.Input)
	if l.Jump {
		a.driver.Jump()
	}
}
