package frame

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-avatar/internal/log"
)

// Loop emits a frame on its Signal at a fixed rate, passing the measured
// delta since the previous frame.
type Loop struct {
	*Signal

	rate time.Duration
	now  func() time.Time

	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	frames   uint64
}

// NewLoop creates a loop running at rate. Typical rate is 33ms (30Hz).
func NewLoop(rate time.Duration) *Loop {
	return &Loop{
		Signal: NewSignal(),
		rate:   rate,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Rate returns the frame interval.
func (l *Loop) Rate() time.Duration {
	return l.rate
}

// Frames returns how many frames have been emitted.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Run emits frames until ctx is done or Stop is called. Blocks.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.rate)
	defer ticker.Stop()

	log.Debug("frame loop started", "hz", 1.0/l.rate.Seconds())
	last := l.now()

	for {
		select {
		case <-ctx.Done():
			log.Debug("frame loop stopped", "reason", ctx.Err(), "frames", l.Frames())
			return
		case <-l.stop:
			log.Debug("frame loop stopped", "frames", l.Frames())
			return
		case <-ticker.C:
			now := l.now()
			l.Step(now.Sub(last))
			last = now
		}
	}
}

// Step emits one frame of length dt. Run calls it on every tick; tests and
// fixed-step simulations may call it directly.
func (l *Loop) Step(dt time.Duration) {
	l.mu.Lock()
	l.frames++
	l.mu.Unlock()

	l.Emit(dt.Seconds())
}

// Stop halts Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
