// Package clips describes the named animation clips an avatar can play.
//
// Clips arrive pre-loaded; this package only carries their identity and timing
// so the playback engine and the controller can reason about them.
package clips

import (
	"fmt"
	"time"
)

// Clip is an already-loaded animation clip.
type Clip struct {
	// Name is the identifier the clip was authored with (e.g. "idle", "wave").
	Name string `json:"name" yaml:"name"`

	// Description explains what the clip shows.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Length is the total playback time at speed 1.
	Length time.Duration `json:"length" yaml:"length"`

	// Loop makes the clip wrap around instead of holding its last frame.
	Loop bool `json:"loop" yaml:"loop"`
}

// New returns a clip, validating its fields.
func New(name string, length time.Duration, loop bool) (*Clip, error) {
	c := &Clip{Name: name, Length: length, Loop: loop}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New for static clip tables. It panics on invalid input.
func MustNew(name string, length time.Duration, loop bool) *Clip {
	c, err := New(name, length, loop)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports whether the clip can be played.
func (c *Clip) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil clip", ErrInvalidClip)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidClip)
	}
	if c.Length <= 0 {
		return fmt.Errorf("%w: %s has non-positive length %v", ErrInvalidClip, c.Name, c.Length)
	}
	return nil
}
