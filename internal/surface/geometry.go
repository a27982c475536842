package surface

import (
	"github.com/Montazar1375/LiveWalli/internal/platform"
	"github.com/Montazar1375/LiveWalli/internal/player"
)

// VideoFrame computes the rectangle the rendering view should occupy
// inside bounds for the given scale mode. Coordinates are relative to the
// wallpaper window origin.
//
// For ModeCenter the video keeps its native pixel size and sits centered,
// which can hang past the edges for videos larger than the display. All
// other modes fill the window and let the player handle the mapping.
func VideoFrame(mode Mode, natural player.Size, rotation int, bounds platform.Rect) platform.Rect {
	full := platform.Rect{X: 0, Y: 0, Width: bounds.Width, Height: bounds.Height}
	if mode != ModeCenter {
		return full
	}

	w, h := natural.Width, natural.Height
	if rotationSwapsAxes(rotation) {
		w, h = h, w
	}
	if w <= 0 || h <= 0 {
		return full
	}

	return platform.Rect{
		X:      (bounds.Width - w) / 2,
		Y:      (bounds.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// rotationSwapsAxes reports whether a track rotation in degrees turns the
// stored width into the displayed height.
func rotationSwapsAxes(rotation int) bool {
	r := rotation % 360
	if r < 0 {
		r += 360
	}
	return r == 90 || r == 270
}
