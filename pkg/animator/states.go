package animator

import "github.com/teslashibe/go-avatar/pkg/playback"

// maxReentry bounds same-tick hand-overs. Each state re-enters at most one
// other, so three hops covers every chain.
const maxReentry = 3

// handler runs a state against the blackboard. It returns the next state and
// whether that state must run again within the same tick.
type handler func(c *Controller, bb *Blackboard) (next State, reenter bool)

var handlers = [...]handler{
	StateInit:       (*Controller).stateInit,
	StateGrounded:   (*Controller).stateGrounded,
	StateAirborne:   (*Controller).stateAirborne,
	StateExpression: (*Controller).stateExpression,
}

// dispatch runs the active state, following same-tick hand-overs.
func (c *Controller) dispatch() {
	for hop := 0; ; hop++ {
		next, reenter := handlers[c.state](c, &c.bb)
		c.setState(next)
		if !reenter {
			return
		}
		if hop >= maxReentry {
			c.log.Warn("re-entry limit reached", "state", c.state)
			return
		}
	}
}

// airOrGround picks the locomotion state implied by the grounded flag.
func airOrGround(bb *Blackboard) State {
	if bb.IsGrounded {
		return StateGrounded
	}
	return StateAirborne
}

func (c *Controller) stateInit(bb *Blackboard) (State, bool) {
	return airOrGround(bb), false
}

func (c *Controller) stateGrounded(bb *Blackboard) (State, bool) {
	if bb.DeltaTime <= 0 {
		c.log.Error("delta time must be positive", "delta_time", bb.DeltaTime)
		return StateGrounded, false
	}

	speed := bb.MovementSpeed / bb.DeltaTime
	c.engine.SetSpeed(c.set.Run.Name, speed*bb.RunSpeedFactor)
	c.engine.SetSpeed(c.set.Walk.Name, speed*bb.WalkSpeedFactor)

	switch {
	case speed > c.cfg.RunMinSpeed:
		c.engine.CrossFade(c.set.Run.Name, c.cfg.RunTransition, playback.BlendOthersDown)
	case speed > c.cfg.WalkMinSpeed:
		c.engine.CrossFade(c.set.Walk.Name, c.cfg.WalkTransition, playback.BlendOthersDown)
	default:
		c.engine.CrossFade(c.set.Idle.Name, c.cfg.IdleTransition, playback.BlendOthersDown)
	}

	if !bb.IsGrounded {
		return StateAirborne, true
	}
	return StateGrounded, false
}

func (c *Controller) stateAirborne(bb *Blackboard) (State, bool) {
	if bb.VerticalSpeed > 0 {
		c.engine.CrossFade(c.set.Jump.Name, c.cfg.JumpTransition, playback.StopAllOthers)
	} else {
		c.engine.CrossFade(c.set.Fall.Name, c.cfg.FallTransition, playback.StopAllOthers)
	}

	if bb.IsGrounded {
		c.engine.Blend(c.set.Jump.Name, 0, c.cfg.AirExitTransition)
		c.engine.Blend(c.set.Fall.Name, 0, c.cfg.AirExitTransition)
		return StateGrounded, true
	}
	return StateAirborne, false
}

func (c *Controller) stateExpression(bb *Blackboard) (State, bool) {
	id := bb.ExpressionTriggerID
	if id == "" {
		return airOrGround(bb), true
	}

	d := c.cfg.ExpressionTransition
	c.engine.CrossFade(id, d, playback.StopAllOthers)

	track, ok := c.engine.Track(id)
	mustExit := !ok ||
		abs(bb.MovementSpeed) > c.cfg.MovementEpsilon ||
		track.Remaining() < d ||
		!bb.IsGrounded

	if mustExit {
		c.engine.Blend(id, 0, d)
		bb.ExpressionTriggerID = ""
		return airOrGround(bb), true
	}

	c.engine.Blend(id, 1, d/2)
	return StateExpression, false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
