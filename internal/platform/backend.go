package platform

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes one physical display. Index is the position in the
// deduplicated enumeration order and doubles as the persisted-config key;
// it is stable only as long as monitors stay plugged in the same order.
type Display struct {
	Index  int
	Name   string
	Bounds Rect
}

// Window is a live wallpaper window handle: a borderless, input-transparent
// top-level window stacked beneath desktop icons, plus an optional child
// "view" window the video player renders into.
type Window interface {
	// SetFrame resizes the window to a new display rectangle.
	SetFrame(bounds Rect) error
	// CreateView creates the child rendering window and returns its ID for
	// embedding a player. At most one view exists at a time.
	CreateView(frame Rect) (uint32, error)
	// MoveView repositions the child rendering window within the window.
	MoveView(frame Rect) error
	// DestroyView removes the child rendering window. No-op if none exists.
	DestroyView() error
	// Obscured reports whether the window is fully hidden behind a
	// full-screen client.
	Obscured() (bool, error)
	// Close destroys the window.
	Close() error
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	CreateWallpaperWindow(bounds Rect) (Window, error)
}
