// Package sim assembles a small world for the avatar simulator: a floor
// with a moving platform, one locally controlled character driven by an
// autopilot, and scripted remote puppets, each animated by its own
// controller.
package sim

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-avatar/internal/config"
	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/animator"
	"github.com/teslashibe/go-avatar/pkg/character"
	"github.com/teslashibe/go-avatar/pkg/frame"
	"github.com/teslashibe/go-avatar/pkg/kinematics"
)

// PlayerID is the node id of the locally controlled character.
const PlayerID = "player"

// Options configures a World.
type Options struct {
	// Rate is the frame interval. Zero means 30Hz.
	Rate time.Duration

	// Puppets is how many remote avatars to spawn.
	Puppets int

	// PlatformPeriod is how long the platform travels before reversing.
	PlatformPeriod time.Duration

	// Observer receives every controller state change.
	Observer func(animator.Transition)
}

// DefaultOptions returns a 30Hz world with three puppets.
func DefaultOptions() Options {
	return Options{
		Rate:           33 * time.Millisecond,
		Puppets:        3,
		PlatformPeriod: 4 * time.Second,
	}
}

// Avatar is one animated character in the world.
type Avatar struct {
	Controller *animator.Controller
	Rig        *character.Rig
	Target     animator.Target
}

// World owns the frame loop and everything it drives.
type World struct {
	loop   *frame.Loop
	ground *kinematics.Ground
	player *character.Local
	pilot  *Autopilot

	platform     int
	platformVel  r3.Vec
	platformTime time.Duration
	period       time.Duration

	puppets []*character.Puppet
	avatars []*Avatar
}

// New builds the world from settings. Every controller is prepared and
// acquired; nothing ticks until Run or Step.
func New(settings *config.Settings, opts Options) (*World, error) {
	if opts.Rate <= 0 {
		opts.Rate = DefaultOptions().Rate
	}
	if opts.PlatformPeriod <= 0 {
		opts.PlatformPeriod = DefaultOptions().PlatformPeriod
	}

	w := &World{
		loop: frame.NewLoop(opts.Rate),
		ground: kinematics.NewGround(kinematics.Slab{
			Min:   r3.Vec{X: -50, Z: -50},
			Max:   r3.Vec{X: 50, Z: 50},
			Top:   0,
			Layer: kinematics.LayerGround,
		}),
		platformVel: r3.Vec{Z: 0.4},
		period:      opts.PlatformPeriod,
	}
	w.platform = w.ground.Add(kinematics.Slab{
		Min:   r3.Vec{X: 6, Z: -2},
		Max:   r3.Vec{X: 10, Z: 2},
		Top:   0.3,
		Layer: kinematics.LayerPlatform,
	})

	w.player = character.NewLocal(PlayerID, character.DefaultLocalConfig(), w.ground, r3.Vec{})
	w.player.SetPlatform(w.platform, w.platformVel)
	w.pilot = NewAutopilot(w.player,
		Leg{D: 2 * time.Second},
		Leg{Input: r3.Vec{X: 3}, D: 2500 * time.Millisecond},
		Leg{D: 4 * time.Second},
		Leg{Input: r3.Vec{X: -8}, D: 950 * time.Millisecond},
		Leg{D: 2 * time.Second, Jump: true},
	)

	for i := 0; i < opts.Puppets; i++ {
		w.puppets = append(w.puppets, newPuppet(i))
	}

	// Frame order: input, physics (which ticks the owned controller),
	// puppets, remote controllers, then playback.
	w.loop.Subscribe(w.tickPlatform)
	w.loop.Subscribe(w.pilot.Step)
	w.loop.Subscribe(w.player.Step)
	for _, p := range w.puppets {
		w.loop.Subscribe(p.Step)
	}

	if err := w.addAvatar(settings, opts, w.player, "BaseFemale"); err != nil {
		return nil, err
	}
	for i, p := range w.puppets {
		tag := "BaseMale"
		if i%2 == 1 {
			tag = "BaseFemale"
		}
		if err := w.addAvatar(settings, opts, p, tag); err != nil {
			return nil, err
		}
	}

	for _, a := range w.avatars {
		w.loop.Subscribe(a.Rig.Advance)
	}
	return w, nil
}

// newPuppet gives each puppet a different routine.
func newPuppet(i int) *character.Puppet {
	start := r3.Vec{X: -10, Z: float64(4 * (i + 1))}
	p := character.NewPuppet(fmt.Sprintf("remote-%d", i+1), start)

	switch i % 3 {
	case 0:
		p.Repeat(
			character.Walk{Offset: r3.Vec{X: 6}, Speed: 2},
			character.Hold{D: 3 * time.Second},
			character.Hop{Height: 1.2, D: 800 * time.Millisecond},
			character.Walk{Offset: r3.Vec{X: -6}, Speed: 2},
			character.Hold{D: 2 * time.Second},
		)
	case 1:
		p.Repeat(
			character.Circle{Radius: 3, Period: 8 * time.Second},
			character.Hold{D: 4 * time.Second},
		)
	default:
		p.Repeat(
			character.Walk{Offset: r3.Vec{X: 16}, Speed: 8},
			character.Hold{D: time.Second},
			character.Walk{Offset: r3.Vec{X: -16}, Speed: 8},
			character.Hold{D: 5 * time.Second},
		)
	}
	return p
}

type target interface {
	animator.Target
	ID() string
}

func (w *World) addAvatar(settings *config.Settings, opts Options, t target, variantTag string) error {
	rig := character.NewHumanoidRig()

	copts := []animator.Option{
		animator.WithID(t.ID()),
		animator.WithKinematics(settings.Kinematics),
	}
	if opts.Observer != nil {
		copts = append(copts, animator.WithObserver(opts.Observer))
	}

	c := animator.New(settings.Animator, settings.Library, w.ground, copts...)
	c.SetTarget(t)
	c.SetParent(t.ID())

	if err := c.Prepare(variantTag, rig); err != nil {
		return fmt.Errorf("prepare %s: %w", t.ID(), err)
	}
	for _, name := range settings.Catalog.List() {
		clip, err := settings.Catalog.Get(name)
		if err != nil {
			continue
		}
		if err := c.EquipEmote(name, clip); err != nil {
			return fmt.Errorf("equip %s on %s: %w", name, t.ID(), err)
		}
	}
	c.Acquire(w.player, w.loop)

	w.avatars = append(w.avatars, &Avatar{Controller: c, Rig: rig, Target: t})
	return nil
}

// tickPlatform reverses the platform every period.
func (w *World) tickPlatform(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	w.platformTime += time.Duration(deltaTime * float64(time.Second))
	if w.platformTime >= w.period {
		w.platformTime -= w.period
		w.platformVel = r3.Scale(-1, w.platformVel)
		w.player.SetPlatform(w.platform, w.platformVel)
	}
}

// Avatars returns every avatar, the player first.
func (w *World) Avatars() []*Avatar {
	return w.avatars
}

// Player returns the locally controlled character.
func (w *World) Player() *character.Local {
	return w.player
}

// Frames returns how many frames have run.
func (w *World) Frames() uint64 {
	return w.loop.Frames()
}

// Step runs one frame of dt. Used for fixed-step runs and tests.
func (w *World) Step(dt time.Duration) {
	w.loop.Step(dt)
}

// Run ticks the world in real time until ctx is done. Blocks.
func (w *World) Run(ctx context.Context) {
	log.Info("simulation running", "avatars", len(w.avatars), "hz", 1.0/w.loop.Rate().Seconds())
	w.loop.Run(ctx)
}

// Close releases every controller so no further ticks reach them.
func (w *World) Close() {
	w.loop.Stop()
	for _, a := range w.avatars {
		a.Controller.Release()
	}
}
