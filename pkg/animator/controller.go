package animator

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/frame"
	"github.com/teslashibe/go-avatar/pkg/kinematics"
	"github.com/teslashibe/go-avatar/pkg/playback"
)

// Option configures a Controller.
type Option func(*Controller)

// WithID overrides the generated controller id.
func WithID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// WithKinematics overrides the ground probe geometry.
func WithKinematics(cfg kinematics.Config) Option {
	return func(c *Controller) {
		c.kcfg = cfg
	}
}

// WithObserver registers fn to be called on every state change.
// fn runs while the controller is locked and must not call back into it.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// Controller animates one avatar. All methods are safe for concurrent use;
// ticks for one controller are serialized.
type Controller struct {
	mu sync.Mutex

	id      string
	cfg     Config
	kcfg    kinematics.Config
	library Library
	sampler *kinematics.Sampler
	log     *slog.Logger

	target   Target
	parentID string
	engine   playback.Engine

	set     LocomotionSet
	variant Variant
	bound   bool

	bb        Blackboard
	state     State
	lastDelta float64

	local    LocalCharacter
	owned    bool
	cancel   frame.Cancel
	released bool

	observer func(Transition)
}

// New creates a controller in the Init state. probe answers the grounded
// query; a nil probe reports the avatar as always airborne.
func New(cfg Config, library Library, probe kinematics.GroundProbe, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		cfg:     cfg,
		kcfg:    kinematics.DefaultConfig(),
		library: library,
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.sampler = kinematics.NewSampler(c.kcfg, probe)
	c.log = log.With("avatar", c.id)
	c.bb.WalkSpeedFactor = cfg.WalkSpeedFactor
	c.bb.RunSpeedFactor = cfg.RunSpeedFactor
	return c
}

// ID returns the controller id.
func (c *Controller) ID() string {
	return c.id
}

// Config returns the controller tuning.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetTarget sets the node whose position is sampled every tick.
func (c *Controller) SetTarget(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

// SetParent records the id of the node the avatar is attached to. It decides
// ownership on the next Acquire.
func (c *Controller) SetParent(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parentID = id
}

// OnTransition replaces the transition observer.
func (c *Controller) OnTransition(fn func(Transition)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// State returns the active state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Variant returns the bound body variant.
func (c *Controller) Variant() Variant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.variant
}

// Locomotion returns the bound locomotion set and whether one is bound.
func (c *Controller) Locomotion() (LocomotionSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set, c.bound
}

// Blackboard returns a copy of the last sampled blackboard.
func (c *Controller) Blackboard() Blackboard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bb
}

// Snapshot returns a read-only view of the controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		ID:         c.id,
		State:      c.state,
		Variant:    c.variant,
		Owned:      c.owned,
		Acquired:   c.cancel != nil,
		Blackboard: c.bb,
	}
	if c.engine != nil {
		s.Tracks = c.engine.Sample()
	}
	return s
}

// Update runs one tick with the given frame delta in seconds. It matches
// frame.Handler so it can be subscribed directly.
func (c *Controller) Update(deltaTime float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return
	}
	c.update(deltaTime)
}

// update samples motion and runs the state machine. Missing collaborators
// make the tick a no-op.
func (c *Controller) update(deltaTime float64) {
	if c.target == nil || c.engine == nil || !c.bound {
		return
	}

	c.lastDelta = deltaTime
	c.bb.DeltaTime = deltaTime
	c.sample()
	c.dispatch()
}

// sample writes the kinematic sample into the blackboard.
func (c *Controller) sample() {
	platform := 0.0
	if c.owned && c.local != nil {
		platform = c.local.MovingPlatformSpeed()
	}

	s := c.sampler.Sample(c.target.Position(), platform)
	c.bb.WalkSpeedFactor = c.cfg.WalkSpeedFactor
	c.bb.RunSpeedFactor = c.cfg.RunSpeedFactor
	c.bb.MovementSpeed = s.MovementSpeed
	c.bb.VerticalSpeed = s.VerticalSpeed
	c.bb.IsGrounded = s.Grounded
}

// setState switches the active state and notifies the observer.
func (c *Controller) setState(next State) {
	if next == c.state {
		return
	}
	t := Transition{Avatar: c.id, From: c.state, To: next}
	c.state = next
	c.log.Debug("state transition", "from", t.From, "to", t.To)
	if c.observer != nil {
		c.observer(t)
	}
}
