package character

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-avatar/internal/log"
)

// Puppet is a remote avatar whose root replays queued moves. Moves play in
// order; a repeating script is queued again once the queue drains.
type Puppet struct {
	id string

	mu      sync.RWMutex
	origin  r3.Vec // root position when the current move started
	pos     r3.Vec
	current Move
	elapsed time.Duration
	queue   []Move
	script  []Move
}

// NewPuppet creates a puppet standing at start.
func NewPuppet(id string, start r3.Vec) *Puppet {
	return &Puppet{id: id, origin: start, pos: start}
}

// ID returns the puppet id.
func (p *Puppet) ID() string {
	return p.id
}

// Position returns the root position.
func (p *Puppet) Position() r3.Vec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

// Queue appends moves after the ones already queued.
func (p *Puppet) Queue(moves ...Move) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, moves...)
}

// Repeat replaces the script that is replayed whenever the queue drains.
func (p *Puppet) Repeat(moves ...Move) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append([]Move(nil), moves...)
}

// StopMove ends the current move where it is and drops the queue.
// The repeating script is kept.
func (p *Puppet) StopMove() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		log.Debug("puppet move stopped", "puppet", p.id, "move", p.current.Name())
	}
	p.origin = p.pos
	p.current = nil
	p.elapsed = 0
	p.queue = nil
}

// CurrentMoveName returns the name of the current move, or empty if idle.
func (p *Puppet) CurrentMoveName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current != nil {
		return p.current.Name()
	}
	return ""
}

// Step advances the puppet by deltaTime seconds. It matches frame.Handler.
func (p *Puppet) Step(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil && !p.next() {
		return
	}

	p.elapsed += time.Duration(deltaTime * float64(time.Second))
	p.pos = r3.Add(p.origin, p.current.Evaluate(p.elapsed))

	if p.current.IsComplete(p.elapsed) {
		p.pos = r3.Add(p.origin, p.current.Evaluate(p.current.Duration()))
		p.origin = p.pos
		p.current = nil
		p.elapsed = 0
	}
}

// next pops the next move, refilling from the script. Caller holds mu.
func (p *Puppet) next() bool {
	if len(p.queue) == 0 {
		p.queue = append(p.queue, p.script...)
	}
	if len(p.queue) == 0 {
		return false
	}
	p.current, p.queue = p.queue[0], p.queue[1:]
	p.elapsed = 0
	return true
}
