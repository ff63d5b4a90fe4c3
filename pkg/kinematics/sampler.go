package kinematics

import "gonum.org/v1/gonum/spatial/r3"

// Sampler measures motion between consecutive root positions.
// It is not safe for concurrent use; each avatar owns one.
type Sampler struct {
	cfg   Config
	probe GroundProbe

	last   r3.Vec
	primed bool
}

// NewSampler creates a sampler. A nil probe never reports ground.
func NewSampler(cfg Config, probe GroundProbe) *Sampler {
	return &Sampler{cfg: cfg, probe: probe}
}

// Config returns the probe geometry.
func (s *Sampler) Config() Config {
	return s.cfg
}

// Reset forgets the last position so the next sample reports zero motion.
func (s *Sampler) Reset() {
	s.last = r3.Vec{}
	s.primed = false
}

// LastPosition returns the position recorded by the previous sample.
func (s *Sampler) LastPosition() r3.Vec {
	return s.last
}

// Sample measures motion from the previous position to pos.
// platformSpeed is subtracted from the planar speed; pass 0 for avatars that
// are not locally controlled.
func (s *Sampler) Sample(pos r3.Vec, platformSpeed float64) Sample {
	if !s.primed {
		s.last = pos
		s.primed = true
	}

	delta := r3.Sub(pos, s.last)
	planar := r3.Norm(r3.Vec{X: delta.X, Z: delta.Z})

	out := Sample{
		MovementSpeed: planar - platformSpeed,
		VerticalSpeed: delta.Y,
		Grounded:      s.grounded(pos),
	}

	s.last = pos
	return out
}

// grounded casts down from above pos. No hit means airborne.
func (s *Sampler) grounded(pos r3.Vec) bool {
	if s.probe == nil {
		return false
	}
	origin := r3.Add(pos, r3.Scale(s.cfg.RayOffset, r3.Vec{Y: 1}))
	return s.probe.CastDown(origin, s.cfg.CastDistance(), s.cfg.GroundLayers)
}
