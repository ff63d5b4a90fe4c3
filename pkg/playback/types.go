// Package playback defines the skeletal playback engine the animator drives
// and provides Mixer, an in-memory engine with timed weight fades.
package playback

import (
	"time"

	"github.com/teslashibe/go-avatar/pkg/clips"
)

// Mode selects what a crossfade does to the other tracks.
type Mode int

const (
	// BlendOthersDown fades every other track to zero over the crossfade.
	BlendOthersDown Mode = iota

	// StopAllOthers stops every other track before fading the target in.
	StopAllOthers
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case BlendOthersDown:
		return "blend_others_down"
	case StopAllOthers:
		return "stop_all_others"
	default:
		return "unknown"
	}
}

// TrackState is the playback state of one named track.
type TrackState struct {
	Name    string        `json:"name"`
	Length  time.Duration `json:"length"`
	Time    time.Duration `json:"time"`
	Weight  float64       `json:"weight"`
	Target  float64       `json:"target"`
	Speed   float64       `json:"speed"`
	Enabled bool          `json:"enabled"`
}

// Remaining returns how much playback time is left before the clip end.
func (t TrackState) Remaining() time.Duration {
	return t.Length - t.Time
}

// Engine is the contract the animator needs from a playback engine.
// Implementations are driven from a single tick at a time.
type Engine interface {
	// CrossFade fades name in over fade, treating other tracks per mode.
	CrossFade(name string, fade time.Duration, mode Mode)

	// Blend fades the weight of name toward weight over fade.
	Blend(name string, weight float64, fade time.Duration)

	// Play starts name at full weight and stops every other track.
	Play(name string) bool

	// Stop disables and rewinds name.
	Stop(name string)

	// StopAll disables and rewinds every track.
	StopAll()

	// AddClip registers clip under name.
	AddClip(clip *clips.Clip, name string)

	// RemoveClip unregisters name.
	RemoveClip(name string)

	// Clip returns the clip registered under name, or nil.
	Clip(name string) *clips.Clip

	// SetSpeed sets the normalized playback rate of name.
	SetSpeed(name string, speed float64)

	// Speed returns the normalized playback rate of name.
	Speed(name string) float64

	// Track returns the state of name and whether it is registered.
	Track(name string) (TrackState, bool)

	// Sample evaluates the current pose without advancing time.
	Sample() []TrackState
}
