package character

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/frame"
	"github.com/teslashibe/go-avatar/pkg/kinematics"
)

// LocalConfig holds the physics of the locally controlled character.
type LocalConfig struct {
	// RootHeight is how far the sampled root sits above the feet.
	RootHeight float64

	// Gravity in units per second squared.
	Gravity float64

	// JumpSpeed is the initial vertical speed of a jump.
	JumpSpeed float64

	// StepHeight is the tallest ledge the character walks up without jumping.
	StepHeight float64

	// KillHeight respawns the character when its feet fall below it.
	KillHeight float64
}

// DefaultLocalConfig returns humanoid physics with the root at the feet.
// Pair it with kinematics.FeetConfig.
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		RootHeight: 0,
		Gravity:    20,
		JumpSpeed:  7,
		StepHeight: 0.3,
		KillHeight: -50,
	}
}

const contactTolerance = 1e-6

// Local is the locally controlled character controller. Step integrates
// movement against the ground, then signals that the frame's update has
// finished.
type Local struct {
	id       string
	cfg      LocalConfig
	ground   *kinematics.Ground
	finished *frame.Signal

	mu            sync.RWMutex
	spawn         r3.Vec
	pos           r3.Vec
	verticalSpeed float64
	input         r3.Vec
	jump          bool

	platform      int
	platformVel   r3.Vec
	platformSpeed float64
}

// NewLocal creates a character whose root starts at spawn.
func NewLocal(id string, cfg LocalConfig, ground *kinematics.Ground, spawn r3.Vec) *Local {
	return &Local{
		id:       id,
		cfg:      cfg,
		ground:   ground,
		finished: frame.NewSignal(),
		spawn:    spawn,
		pos:      spawn,
		platform: -1,
	}
}

// ID returns the character node id.
func (l *Local) ID() string {
	return l.id
}

// Position returns the root position.
func (l *Local) Position() r3.Vec {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pos
}

// MovingPlatformSpeed returns the planar displacement the platform under the
// character contributed in the last frame.
func (l *Local) MovingPlatformSpeed() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.platformSpeed
}

// OnUpdateFinished subscribes h to the end of every Step.
func (l *Local) OnUpdateFinished(h frame.Handler) frame.Cancel {
	return l.finished.Subscribe(h)
}

// SetInput sets the planar velocity in units per second. Y is ignored.
func (l *Local) SetInput(v r3.Vec) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.input = r3.Vec{X: v.X, Z: v.Z}
}

// Jump requests a jump on the next Step. Ignored while airborne.
func (l *Local) Jump() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jump = true
}

// SetPlatform makes ground slab i move at velocity v every Step.
// Pass a negative index to stop driving a platform.
func (l *Local) SetPlatform(i int, v r3.Vec) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.platform = i
	l.platformVel = v
}

// Step advances the character by deltaTime seconds and emits the
// update-finished signal. It matches frame.Handler.
func (l *Local) Step(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	l.mu.Lock()
	l.integrate(deltaTime)
	l.mu.Unlock()

	l.finished.Emit(deltaTime)
}

// integrate moves the character one step. Caller holds mu.
func (l *Local) integrate(dt float64) {
	surface, onGround := l.contact()

	l.platformSpeed = 0
	if l.platform >= 0 {
		d := r3.Scale(dt, l.platformVel)
		l.ground.Move(l.platform, d)
		if onGround && surface == l.platform {
			l.pos = r3.Add(l.pos, d)
			l.platformSpeed = r3.Norm(r3.Vec{X: d.X, Z: d.Z})
		}
	}

	l.pos = r3.Add(l.pos, r3.Scale(dt, l.input))

	if l.jump && onGround {
		l.verticalSpeed = l.cfg.JumpSpeed
		onGround = false
	}
	l.jump = false

	if !onGround {
		l.verticalSpeed -= l.cfg.Gravity * dt
	}
	before := l.feet()
	l.pos.Y += l.verticalSpeed * dt

	// Probe from the higher of the two feet heights so a fast fall cannot
	// pass through a slab within one step.
	feet := l.feet()
	probe := feet
	probe.Y = max(before.Y, feet.Y)
	if top, ok := l.ground.HeightAt(probe, l.cfg.StepHeight); ok && feet.Y <= top && l.verticalSpeed <= 0 {
		l.pos.Y = top + l.cfg.RootHeight
		l.verticalSpeed = 0
	}

	if feet.Y < l.cfg.KillHeight {
		log.Warn("character fell out of the world, respawning", "character", l.id)
		l.pos = l.spawn
		l.verticalSpeed = 0
	}
}

// contact reports the slab the feet rest on. Caller holds mu.
func (l *Local) contact() (int, bool) {
	if l.verticalSpeed > 0 {
		return -1, false
	}
	feet := l.feet()
	i, top, ok := l.ground.SurfaceAt(feet, contactTolerance)
	if !ok || feet.Y-top > contactTolerance {
		return -1, false
	}
	return i, true
}

func (l *Local) feet() r3.Vec {
	return r3.Vec{X: l.pos.X, Y: l.pos.Y - l.cfg.RootHeight, Z: l.pos.Z}
}
