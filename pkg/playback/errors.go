package playback

import "errors"

// ErrUnknownClip is returned when a track name is not registered.
var ErrUnknownClip = errors.New("unknown clip")
