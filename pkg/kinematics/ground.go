package kinematics

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Slab is an axis-aligned walkable surface at height Top.
type Slab struct {
	Min, Max r3.Vec // X/Z extents; Y is ignored
	Top      float64
	Layer    LayerMask
}

// covers reports whether p lies over the slab footprint.
func (s Slab) covers(p r3.Vec) bool {
	return p.X >= s.Min.X && p.X <= s.Max.X && p.Z >= s.Min.Z && p.Z <= s.Max.Z
}

// Ground is a GroundProbe over a set of horizontal slabs.
// It is safe for concurrent use.
type Ground struct {
	mu    sync.RWMutex
	slabs []Slab
}

// NewGround creates a ground made of slabs.
func NewGround(slabs ...Slab) *Ground {
	return &Ground{slabs: append([]Slab(nil), slabs...)}
}

// Add appends a slab and returns its index.
func (g *Ground) Add(s Slab) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.slabs = append(g.slabs, s)
	return len(g.slabs) - 1
}

// Move translates slab i by d. Used for moving platforms.
func (g *Ground) Move(i int, d r3.Vec) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.slabs) {
		return
	}
	s := &g.slabs[i]
	s.Min = r3.Add(s.Min, d)
	s.Max = r3.Add(s.Max, d)
	s.Top += d.Y
}

// HeightAt returns the highest slab top under p that is not above p.Y+step,
// and whether any slab covers p.
func (g *Ground) HeightAt(p r3.Vec, step float64) (float64, bool) {
	_, top, ok := g.SurfaceAt(p, step)
	return top, ok
}

// SurfaceAt is HeightAt that also returns the index of the slab found.
func (g *Ground) SurfaceAt(p r3.Vec, step float64) (int, float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, best := -1, 0.0
	for i, s := range g.slabs {
		if !s.covers(p) || s.Top > p.Y+step {
			continue
		}
		if idx < 0 || s.Top > best {
			idx, best = i, s.Top
		}
	}
	return idx, best, idx >= 0
}

// CastDown reports a hit when a slab on layers lies between origin and
// origin-maxDistance.
func (g *Ground) CastDown(origin r3.Vec, maxDistance float64, layers LayerMask) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, s := range g.slabs {
		if !layers.Contains(s.Layer) || !s.covers(origin) {
			continue
		}
		if s.Top <= origin.Y && s.Top >= origin.Y-maxDistance {
			return true
		}
	}
	return false
}
