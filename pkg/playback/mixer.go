package playback

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/teslashibe/go-avatar/pkg/clips"
)

// track is the runtime state of one registered clip.
type track struct {
	clip    *clips.Clip
	time    time.Duration
	weight  float64
	target  float64
	rate    float64 // weight units per second, 0 = snap on next advance
	speed   float64
	enabled bool
}

func (t *track) state(name string) TrackState {
	return TrackState{
		Name:    name,
		Length:  t.clip.Length,
		Time:    t.time,
		Weight:  t.weight,
		Target:  t.target,
		Speed:   t.speed,
		Enabled: t.enabled,
	}
}

// fadeTo schedules a linear weight ramp toward w over d.
func (t *track) fadeTo(w float64, d time.Duration) {
	w = clamp(w, 0, 1)
	t.target = w
	if d <= 0 {
		t.weight = w
		t.rate = 0
		if w == 0 {
			t.stop()
		}
		return
	}
	t.rate = abs(w-t.weight) / d.Seconds()
}

func (t *track) stop() {
	t.enabled = false
	t.weight = 0
	t.target = 0
	t.rate = 0
	t.time = 0
}

// Mixer is an in-memory Engine. Commands only schedule weight changes;
// Advance moves time forward. It is safe for concurrent use.
type Mixer struct {
	mu     sync.RWMutex
	tracks map[string]*track
}

// NewMixer creates a mixer with no clips.
func NewMixer() *Mixer {
	return &Mixer{
		tracks: make(map[string]*track),
	}
}

var _ Engine = (*Mixer)(nil)

// CrossFade fades name in over fade. Unknown names are ignored.
func (m *Mixer) CrossFade(name string, fade time.Duration, mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[name]
	if !ok {
		return
	}

	for other, o := range m.tracks {
		if other == name {
			continue
		}
		switch mode {
		case StopAllOthers:
			o.stop()
		default:
			if o.enabled {
				o.fadeTo(0, fade)
			}
		}
	}

	t.enabled = true
	t.fadeTo(1, fade)
}

// Blend fades name toward weight without touching other tracks.
func (m *Mixer) Blend(name string, weight float64, fade time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[name]
	if !ok {
		return
	}
	if !t.enabled && weight <= 0 {
		return
	}
	t.enabled = true
	t.fadeTo(weight, fade)
}

// Play starts name at full weight and stops every other track.
func (m *Mixer) Play(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[name]
	if !ok {
		return false
	}
	for other, o := range m.tracks {
		if other != name {
			o.stop()
		}
	}
	t.enabled = true
	t.weight = 1
	t.target = 1
	t.rate = 0
	return true
}

// Stop disables and rewinds name.
func (m *Mixer) Stop(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tracks[name]; ok {
		t.stop()
	}
}

// StopAll disables and rewinds every track.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tracks {
		t.stop()
	}
}

// AddClip registers clip under name, replacing any previous track.
func (m *Mixer) AddClip(clip *clips.Clip, name string) {
	if clip == nil || name == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[name] = &track{clip: clip, speed: 1}
}

// RemoveClip unregisters name.
func (m *Mixer) RemoveClip(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tracks, name)
}

// Clip returns the clip registered under name, or nil.
func (m *Mixer) Clip(name string) *clips.Clip {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.tracks[name]; ok {
		return t.clip
	}
	return nil
}

// SetSpeed sets the normalized playback rate of name.
func (m *Mixer) SetSpeed(name string, speed float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tracks[name]; ok {
		t.speed = speed
	}
}

// Speed returns the normalized playback rate of name, or 0 if unknown.
func (m *Mixer) Speed(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.tracks[name]; ok {
		return t.speed
	}
	return 0
}

// Track returns the state of name.
func (m *Mixer) Track(name string) (TrackState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tracks[name]
	if !ok {
		return TrackState{}, false
	}
	return t.state(name), true
}

// Weight returns the current weight of name.
func (m *Mixer) Weight(name string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tracks[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClip, name)
	}
	return t.weight, nil
}

// Names returns every registered track name, sorted.
func (m *Mixer) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tracks))
	for name := range m.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample returns the enabled tracks, sorted by name.
func (m *Mixer) Sample() []TrackState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TrackState
	for name, t := range m.tracks {
		if t.enabled {
			out = append(out, t.state(name))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Advance moves every enabled track forward by dt.
// Looping clips wrap; others hold their last frame.
// Tracks that fade out to zero are stopped.
func (m *Mixer) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tracks {
		if !t.enabled {
			continue
		}

		t.time += time.Duration(float64(dt) * t.speed)
		length := t.clip.Length
		if t.clip.Loop {
			t.time %= length
			if t.time < 0 {
				t.time += length
			}
		} else {
			t.time = time.Duration(clamp(float64(t.time), 0, float64(length)))
		}

		if t.weight != t.target {
			step := t.rate * dt.Seconds()
			switch {
			case t.rate == 0 || abs(t.target-t.weight) <= step:
				t.weight = t.target
			case t.weight < t.target:
				t.weight += step
			default:
				t.weight -= step
			}
		}

		if t.weight == 0 && t.target == 0 {
			t.stop()
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts v to the range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
