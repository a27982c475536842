package x11

// Rect describes a rectangular region in root-window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}
