package animator

import (
	"fmt"

	"github.com/teslashibe/go-avatar/pkg/clips"
)

// Prepare binds the controller to rig. The rig must contain the skeleton
// root node. On success the locomotion set for variantTag is registered, the
// idle frame is played and the pose is sampled once.
func (c *Controller) Prepare(variantTag string, rig Rig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rig == nil || !rig.HasNode(c.cfg.SkeletonRoot) {
		c.log.Error("skeleton root not found", "root", c.cfg.SkeletonRoot)
		return fmt.Errorf("%w: %s", ErrSkeletonNotFound, c.cfg.SkeletonRoot)
	}
	engine := rig.PlaybackEngine()
	if engine == nil {
		return ErrNoEngine
	}

	prev := c.engine
	c.engine = engine
	if err := c.prepareLocomotion(variantTag); err != nil {
		c.engine = prev
		return err
	}

	c.engine.Play(c.set.Idle.Name)
	c.engine.Sample()
	c.log.Info("avatar prepared", "variant", c.variant)
	return nil
}

// PrepareLocomotionAnims binds the locomotion set for variantTag and
// registers its clips on the engine under their own names.
func (c *Controller) PrepareLocomotionAnims(variantTag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepareLocomotion(variantTag)
}

func (c *Controller) prepareLocomotion(variantTag string) error {
	if c.engine == nil {
		return ErrNoEngine
	}

	variant := c.cfg.ResolveVariant(variantTag)
	switch {
	case variant != VariantUnknown:
		set, ok := c.library[variant]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoLocomotionSet, variant)
		}
		if err := set.Validate(); err != nil {
			return fmt.Errorf("%s locomotion: %w", variant, err)
		}
		c.set = set
		c.variant = variant
		c.bound = true
	case c.cfg.VariantPolicy == VariantFail:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, variantTag)
	case !c.bound:
		return fmt.Errorf("%w: %q matches no variant", ErrNoLocomotionSet, variantTag)
	default:
		c.log.Warn("unrecognized variant, keeping previous locomotion", "tag", variantTag, "variant", c.variant)
	}

	for _, clip := range c.set.Clips() {
		if err := c.equip(clip.Name, clip); err != nil {
			return err
		}
	}
	return nil
}

// EquipEmote registers clip under id, replacing any clip already there.
func (c *Controller) EquipEmote(id string, clip *clips.Clip) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.equip(id, clip)
}

func (c *Controller) equip(id string, clip *clips.Clip) error {
	if c.engine == nil {
		return ErrNoEngine
	}
	if id == "" {
		return fmt.Errorf("%w: empty emote id", clips.ErrInvalidClip)
	}
	if err := clip.Validate(); err != nil {
		return err
	}

	if c.engine.Clip(id) != nil {
		c.engine.RemoveClip(id)
	}
	c.engine.AddClip(clip, id)
	return nil
}

// UnequipEmote removes the clip registered under id. Unknown ids are ignored.
func (c *Controller) UnequipEmote(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return ErrNoEngine
	}
	if c.engine.Clip(id) == nil {
		return nil
	}
	c.engine.RemoveClip(id)
	return nil
}

// SetIdleFrame plays the idle clip at full weight.
func (c *Controller) SetIdleFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil || !c.bound {
		return
	}
	c.engine.Play(c.set.Idle.Name)
}

// Reset stops and rewinds every track. The active state is kept, so the
// next tick resumes locomotion.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return
	}
	c.engine.StopAll()
}
