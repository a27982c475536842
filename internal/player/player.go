// Package player drives an embedded video player rendering into an X11
// window. The concrete implementation runs mpv as a child process and
// controls it over its JSON IPC socket.
package player

// Gravity is how the video maps onto the rendering view when their aspect
// ratios differ.
type Gravity string

const (
	// GravityAspectFill scales uniformly to cover the view, cropping.
	GravityAspectFill Gravity = "aspect-fill"
	// GravityAspect scales uniformly to fit inside the view, letterboxing.
	GravityAspect Gravity = "aspect"
	// GravityStretch scales non-uniformly to exactly fill the view.
	GravityStretch Gravity = "stretch"
)

// Size is a video frame size in pixels.
type Size struct {
	Width  int
	Height int
}

// Player is a live playback handle. A Player is exclusively owned by one
// wallpaper surface; replacing a surface's video closes the old Player
// before constructing the next.
type Player interface {
	Play() error
	Pause() error
	// SeekStart rewinds to the beginning of the media.
	SeekStart() error
	// SetGravity changes how the video maps onto the rendering view.
	SetGravity(g Gravity) error
	// NaturalSize returns the video's native frame size and rotation in
	// degrees. ok is false until track information is available.
	NaturalSize() (size Size, rotation int, ok bool)
	// OnEndOfMedia registers the end-of-media observer. The handler fires
	// on an internal goroutine; the registrant must verify the Player is
	// still current before acting.
	OnEndOfMedia(fn func())
	// OnVideoReconfig registers a handler fired when track information
	// becomes available or changes.
	OnVideoReconfig(fn func())
	// Close stops playback, detaches the media and deregisters all
	// observers. Safe to call more than once.
	Close() error
}

// Factory constructs a Player rendering the media at path into the window
// identified by viewID.
type Factory func(path string, viewID uint32, gravity Gravity) (Player, error)
