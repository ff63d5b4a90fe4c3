package character

import (
	"time"

	"github.com/teslashibe/go-avatar/pkg/playback"
)

// HumanoidNodes is the node hierarchy of a standard humanoid rig.
var HumanoidNodes = []string{
	"Armature", "Hips", "Spine", "Chest", "Neck", "Head",
	"LeftUpperArm", "LeftLowerArm", "LeftHand",
	"RightUpperArm", "RightLowerArm", "RightHand",
	"LeftUpperLeg", "LeftLowerLeg", "LeftFoot",
	"RightUpperLeg", "RightLowerLeg", "RightFoot",
}

// Rig is a skinned node hierarchy animated by a Mixer.
type Rig struct {
	nodes map[string]struct{}
	mixer *playback.Mixer
}

// NewRig creates a rig with the given nodes and an empty mixer.
func NewRig(nodes ...string) *Rig {
	r := &Rig{
		nodes: make(map[string]struct{}, len(nodes)),
		mixer: playback.NewMixer(),
	}
	for _, n := range nodes {
		r.nodes[n] = struct{}{}
	}
	return r
}

// NewHumanoidRig creates a rig with HumanoidNodes.
func NewHumanoidRig() *Rig {
	return NewRig(HumanoidNodes...)
}

// HasNode reports whether name is part of the rig.
func (r *Rig) HasNode(name string) bool {
	_, ok := r.nodes[name]
	return ok
}

// PlaybackEngine returns the rig's mixer.
func (r *Rig) PlaybackEngine() playback.Engine {
	return r.mixer
}

// Mixer returns the concrete mixer.
func (r *Rig) Mixer() *playback.Mixer {
	return r.mixer
}

// Advance moves playback forward by deltaTime seconds. It matches
// frame.Handler.
func (r *Rig) Advance(deltaTime float64) {
	r.mixer.Advance(time.Duration(deltaTime * float64(time.Second)))
}
