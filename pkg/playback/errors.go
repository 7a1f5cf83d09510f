package playback

import "errors"

var (
	// ErrDetached reports that a surface was removed while being written.
	ErrDetached = errors.New("playback: surface detached")

	// ErrSuperseded reports that a newer run took over the same surface.
	ErrSuperseded = errors.New("playback: superseded by a newer run")

	// ErrCancelled reports that the owner cancelled the run.
	ErrCancelled = errors.New("playback: cancelled")
)
