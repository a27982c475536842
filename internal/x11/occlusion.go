package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// RegionObscured reports whether some full-screen client window completely
// covers the given screen region. Used as the occlusion signal for pausing
// playback while a full-screen app hides the desktop.
func (c *Connection) RegionObscured(region Rect) (bool, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false, err
	}

	for _, windowID := range clients {
		states, err := ewmh.WmStateGet(c.XUtil, windowID)
		if err != nil {
			continue
		}
		fullscreen := false
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				fullscreen = true
				break
			}
		}
		if !fullscreen {
			continue
		}

		covers, err := c.windowCovers(windowID, region)
		if err != nil {
			continue
		}
		if covers {
			return true, nil
		}
	}
	return false, nil
}

// windowCovers reports whether windowID's geometry, translated to root
// coordinates, contains the entire region.
func (c *Connection) windowCovers(windowID xproto.Window, region Rect) (bool, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return false, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return false, err
	}

	x1 := int(translate.DstX)
	y1 := int(translate.DstY)
	x2 := x1 + int(geom.Width)
	y2 := y1 + int(geom.Height)

	return x1 <= region.X && y1 <= region.Y &&
		x2 >= region.X+region.Width && y2 >= region.Y+region.Height, nil
}
