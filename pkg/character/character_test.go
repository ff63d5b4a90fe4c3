package character

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-avatar/pkg/clips"
	"github.com/teslashibe/go-avatar/pkg/kinematics"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func vecEquals(a, b r3.Vec) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y) && floatEquals(a.Z, b.Z)
}

const dt = 1.0 / 30

func floor() kinematics.Slab {
	return kinematics.Slab{
		Min:   r3.Vec{X: -20, Z: -20},
		Max:   r3.Vec{X: 20, Z: 20},
		Top:   0,
		Layer: kinematics.LayerGround,
	}
}

func TestWalk(t *testing.T) {
	m := Walk{Offset: r3.Vec{X: 3, Z: 4}, Speed: 2.5}

	if m.Duration() != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", m.Duration())
	}
	if got := m.Evaluate(time.Second); !vecEquals(got, r3.Vec{X: 1.5, Z: 2}) {
		t.Errorf("Evaluate(1s) = %v", got)
	}
	if got := m.Evaluate(5 * time.Second); !vecEquals(got, m.Offset) {
		t.Errorf("Evaluate past end = %v, want %v", got, m.Offset)
	}
	if !m.IsComplete(2 * time.Second) {
		t.Error("walk should be complete at its duration")
	}
	if (Walk{Offset: r3.Vec{X: 1}}).Duration() != 0 {
		t.Error("zero-speed walk should take no time")
	}
}

func TestHop(t *testing.T) {
	m := Hop{Height: 1.5, D: time.Second}

	if got := m.Evaluate(500 * time.Millisecond); !floatEquals(got.Y, 1.5) {
		t.Errorf("apex = %v, want 1.5", got.Y)
	}
	if got := m.Evaluate(0); got != (r3.Vec{}) {
		t.Errorf("start = %v, want zero", got)
	}
	if got := m.Evaluate(time.Second); got != (r3.Vec{}) {
		t.Errorf("end = %v, want zero", got)
	}
}

func TestCircle(t *testing.T) {
	m := Circle{Radius: 2, Period: 4 * time.Second}

	if got := m.Evaluate(time.Second); !vecEquals(got, r3.Vec{X: 2, Z: 2}) {
		t.Errorf("quarter turn = %v, want (2,0,2)", got)
	}
	if got := m.Evaluate(2 * time.Second); !vecEquals(got, r3.Vec{X: 4}) {
		t.Errorf("half turn = %v, want (4,0,0)", got)
	}
	if got := m.Evaluate(4 * time.Second); got != (r3.Vec{}) {
		t.Errorf("full turn = %v, want back at start", got)
	}
}

func TestPuppet_PlaysQueueInOrder(t *testing.T) {
	p := NewPuppet("remote-1", r3.Vec{Z: 1})
	p.Queue(Walk{Offset: r3.Vec{X: 2}, Speed: 1}, Hold{D: 500 * time.Millisecond})

	p.Step(0.5)
	if got := p.Position(); !vecEquals(got, r3.Vec{X: 0.5, Z: 1}) {
		t.Errorf("after 0.5s = %v", got)
	}
	if got := p.CurrentMoveName(); got != "walk(1.0)" {
		t.Errorf("current move = %q", got)
	}

	for i := 0; i < 3; i++ {
		p.Step(0.5)
	}
	if got := p.Position(); !vecEquals(got, r3.Vec{X: 2, Z: 1}) {
		t.Errorf("after walk = %v", got)
	}

	p.Step(0.5)
	p.Step(0.5)
	if got := p.Position(); !vecEquals(got, r3.Vec{X: 2, Z: 1}) {
		t.Errorf("after hold = %v", got)
	}
	if got := p.CurrentMoveName(); got != "" {
		t.Errorf("queue should be drained, current = %q", got)
	}
}

func TestPuppet_RepeatsScript(t *testing.T) {
	p := NewPuppet("remote-2", r3.Vec{})
	p.Repeat(Walk{Offset: r3.Vec{X: 1}, Speed: 1})

	for i := 0; i < 3; i++ {
		p.Step(1)
	}

	if got := p.Position(); !vecEquals(got, r3.Vec{X: 3}) {
		t.Errorf("after three loops = %v, want (3,0,0)", got)
	}
}

func TestPuppet_StopMove(t *testing.T) {
	p := NewPuppet("remote-3", r3.Vec{})
	p.Queue(Walk{Offset: r3.Vec{X: 4}, Speed: 1}, Walk{Offset: r3.Vec{Z: 4}, Speed: 1})

	p.Step(1)
	p.StopMove()
	p.Step(1)

	if got := p.Position(); !vecEquals(got, r3.Vec{X: 1}) {
		t.Errorf("position = %v, want stopped at (1,0,0)", got)
	}
	if got := p.CurrentMoveName(); got != "" {
		t.Errorf("current move = %q, want none", got)
	}
}

func TestPuppet_IgnoresNonPositiveDelta(t *testing.T) {
	p := NewPuppet("remote-4", r3.Vec{})
	p.Queue(Walk{Offset: r3.Vec{X: 1}, Speed: 1})

	p.Step(0)
	p.Step(-1)

	if got := p.CurrentMoveName(); got != "" {
		t.Errorf("move started on a zero delta: %q", got)
	}
}

func TestLocal_StandsAndSignals(t *testing.T) {
	l := NewLocal("player", DefaultLocalConfig(), kinematics.NewGround(floor()), r3.Vec{})

	frames := 0
	cancel := l.OnUpdateFinished(func(float64) { frames++ })

	for i := 0; i < 10; i++ {
		l.Step(dt)
	}
	cancel()
	l.Step(dt)

	if frames != 10 {
		t.Errorf("finished signals = %d, want 10", frames)
	}
	if got := l.Position(); got != (r3.Vec{}) {
		t.Errorf("position = %v, want still on the floor", got)
	}
}

func TestLocal_Walks(t *testing.T) {
	l := NewLocal("player", DefaultLocalConfig(), kinematics.NewGround(floor()), r3.Vec{})
	l.SetInput(r3.Vec{X: 3, Y: 10})

	for i := 0; i < 30; i++ {
		l.Step(dt)
	}

	if got := l.Position(); !vecEquals(got, r3.Vec{X: 3}) {
		t.Errorf("position = %v, want (3,0,0)", got)
	}
}

func TestLocal_JumpsAndLands(t *testing.T) {
	l := NewLocal("player", DefaultLocalConfig(), kinematics.NewGround(floor()), r3.Vec{})

	l.Jump()
	l.Step(dt)
	if y := l.Position().Y; y <= 0 {
		t.Fatalf("Y after jump = %v, want airborne", y)
	}

	peak := 0.0
	for i := 0; i < 60; i++ {
		l.Step(dt)
		peak = math.Max(peak, l.Position().Y)
	}

	if y := l.Position().Y; y != 0 {
		t.Errorf("Y after landing = %v, want 0", y)
	}
	if peak < 1 {
		t.Errorf("peak = %v, want above 1", peak)
	}
}

func TestLocal_RidesPlatform(t *testing.T) {
	ground := kinematics.NewGround(floor())
	platform := ground.Add(kinematics.Slab{
		Min:   r3.Vec{X: -1, Z: -1},
		Max:   r3.Vec{X: 1, Z: 1},
		Top:   0.2,
		Layer: kinematics.LayerPlatform,
	})

	l := NewLocal("player", DefaultLocalConfig(), ground, r3.Vec{Y: 0.2})
	l.SetPlatform(platform, r3.Vec{X: 3})

	l.Step(0.1)

	if got := l.MovingPlatformSpeed(); !floatEquals(got, 0.3) {
		t.Errorf("platform speed = %v, want 0.3", got)
	}
	if got := l.Position(); !vecEquals(got, r3.Vec{X: 0.3, Y: 0.2}) {
		t.Errorf("position = %v, want carried to (0.3,0.2,0)", got)
	}
}

func TestLocal_Respawns(t *testing.T) {
	cfg := DefaultLocalConfig()
	cfg.KillHeight = -1
	l := NewLocal("player", cfg, kinematics.NewGround(), r3.Vec{Y: 5})

	respawned := false
	for i := 0; i < 120 && !respawned; i++ {
		l.Step(dt)
		respawned = l.Position() == (r3.Vec{Y: 5})
	}

	if !respawned {
		t.Error("character never respawned")
	}
}

func TestRig(t *testing.T) {
	r := NewHumanoidRig()

	if !r.HasNode("Armature") || !r.HasNode("LeftFoot") {
		t.Error("humanoid rig is missing nodes")
	}
	if r.HasNode("Tail") {
		t.Error("unexpected node")
	}

	r.Mixer().AddClip(clips.MustNew("idle", 2*time.Second, true), "idle")
	r.PlaybackEngine().Play("idle")
	r.Advance(0.5)

	track, ok := r.Mixer().Track("idle")
	if !ok || track.Time != 500*time.Millisecond {
		t.Errorf("track = %+v, want time 500ms", track)
	}
}
