package animator

// Acquire attaches the controller to its tick source and resets it to Init.
//
// The controller is locally owned when its parent is the local character.
// An owned controller ticks after the character finishes its movement update
// for the frame; any other controller ticks on frames. Either argument may
// be nil.
func (c *Controller) Acquire(local LocalCharacter, frames FrameSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detach()

	c.owned = local != nil && c.parentID != "" && local.ID() == c.parentID
	c.local = nil
	if c.owned {
		c.local = local
		c.cancel = local.OnUpdateFinished(c.Update)
	} else if frames != nil {
		c.cancel = frames.Subscribe(c.Update)
	}

	c.released = false
	c.state = StateInit
	c.sampler.Reset()
	c.log.Debug("acquired", "owned", c.owned)
}

// Release detaches the controller from its tick source. No tick runs after
// Release returns.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detach()
	c.released = true
	c.log.Debug("released")
}

// Owned reports whether the controller drives the locally controlled avatar.
func (c *Controller) Owned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned
}

func (c *Controller) detach() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
