package animator

// SetExpressionValues requests the expression clip id. The request is
// accepted only if id is registered on the engine and timestamp differs from
// the last accepted one; an accepted request rewinds the clip, enters the
// Expression state and ticks once immediately. It reports whether the
// request was accepted.
func (c *Controller) SetExpressionValues(id string, timestamp int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released || c.engine == nil || id == "" {
		return false
	}
	if c.engine.Clip(id) == nil {
		return false
	}
	if timestamp == c.bb.ExpressionTriggerTimestamp {
		return false
	}

	c.bb.ExpressionTriggerID = id
	c.bb.ExpressionTriggerTimestamp = timestamp

	c.engine.Stop(id)
	c.setState(StateExpression)
	c.update(c.lastDelta)
	return true
}

// PlayEmote triggers the emote id. See SetExpressionValues.
func (c *Controller) PlayEmote(id string, timestamp int64) bool {
	return c.SetExpressionValues(id, timestamp)
}
