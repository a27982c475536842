package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

const allDesktops = 0xFFFFFFFF

// WallpaperWindow is a borderless, input-transparent X11 window stacked
// beneath desktop icons, covering exactly one monitor. A child "view"
// window is created per loaded video for the player to render into.
type WallpaperWindow struct {
	conn   *Connection
	win    xproto.Window
	view   xproto.Window
	bounds Rect
}

// NewWallpaperWindow creates and maps a wallpaper window covering bounds.
func NewWallpaperWindow(conn *Connection, bounds Rect) (*WallpaperWindow, error) {
	x := conn.XUtil.Conn()

	wid, err := xproto.NewWindowId(x)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	const copyFromParent = 0
	mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect)
	values := []uint32{
		0x00000000, // black until a video is loaded
		1,          // override-redirect: bypass the window manager
	}

	err = xproto.CreateWindowChecked(x,
		copyFromParent,
		wid,
		conn.Root,
		int16(bounds.X), int16(bounds.Y),
		uint16(bounds.Width), uint16(bounds.Height),
		0,
		xproto.WindowClassInputOutput,
		copyFromParent,
		mask,
		values).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create wallpaper window: %w", err)
	}

	w := &WallpaperWindow{conn: conn, win: wid, bounds: bounds}
	w.setWindowProperties()

	// Degraded but usable without the shape extension: the window still
	// sits below everything and never takes focus.
	_ = w.setInputPassthrough(wid)

	if err := xproto.MapWindowChecked(x, wid).Check(); err != nil {
		xproto.DestroyWindow(x, wid)
		return nil, fmt.Errorf("failed to map wallpaper window: %w", err)
	}

	// Keep the window at the bottom of the stack, beneath desktop icons.
	if err := xproto.ConfigureWindowChecked(x, wid,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeBelow}).Check(); err != nil {
		xproto.DestroyWindow(x, wid)
		return nil, fmt.Errorf("failed to lower wallpaper window: %w", err)
	}

	x.Sync()
	return w, nil
}

// setWindowProperties marks the window as a desktop-layer, sticky,
// non-interactive surface.
func (w *WallpaperWindow) setWindowProperties() {
	xu := w.conn.XUtil

	_ = ewmh.WmWindowTypeSet(xu, w.win, []string{"_NET_WM_WINDOW_TYPE_DESKTOP"})
	_ = ewmh.WmStateSet(xu, w.win, []string{
		"_NET_WM_STATE_BELOW",
		"_NET_WM_STATE_STICKY",
		"_NET_WM_STATE_SKIP_TASKBAR",
		"_NET_WM_STATE_SKIP_PAGER",
	})
	// Present on every virtual desktop; do not follow the active one.
	_ = ewmh.WmDesktopSet(xu, w.win, allDesktops)
	_ = ewmh.WmNameSet(xu, w.win, "livewalli")
}

// setInputPassthrough clears the input shape so all pointer and keyboard
// events fall through to whatever is underneath.
func (w *WallpaperWindow) setInputPassthrough(win xproto.Window) error {
	x := w.conn.XUtil.Conn()
	if err := shape.Init(x); err != nil {
		return err
	}
	return shape.RectanglesChecked(x,
		shape.SoSet,
		shape.SkInput,
		xproto.ClipOrderingUnsorted,
		win,
		0, 0,
		nil).Check()
}

// SetFrame resizes and moves the window to a new display rectangle.
func (w *WallpaperWindow) SetFrame(bounds Rect) error {
	x := w.conn.XUtil.Conn()
	err := xproto.ConfigureWindowChecked(x, w.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(bounds.X), uint32(bounds.Y),
			uint32(bounds.Width), uint32(bounds.Height),
		}).Check()
	if err != nil {
		return fmt.Errorf("failed to resize wallpaper window: %w", err)
	}
	w.bounds = bounds
	return nil
}

// CreateView creates the child rendering window at frame (relative to the
// wallpaper window) and returns its ID for embedding a video player.
func (w *WallpaperWindow) CreateView(frame Rect) (uint32, error) {
	if w.view != 0 {
		if err := w.DestroyView(); err != nil {
			return 0, err
		}
	}

	x := w.conn.XUtil.Conn()
	vid, err := xproto.NewWindowId(x)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate view window id: %w", err)
	}

	const copyFromParent = 0
	err = xproto.CreateWindowChecked(x,
		copyFromParent,
		vid,
		w.win,
		int16(frame.X), int16(frame.Y),
		uint16(frame.Width), uint16(frame.Height),
		0,
		xproto.WindowClassInputOutput,
		copyFromParent,
		xproto.CwBackPixel,
		[]uint32{0x00000000}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create view window: %w", err)
	}

	_ = w.setInputPassthrough(vid)

	if err := xproto.MapWindowChecked(x, vid).Check(); err != nil {
		xproto.DestroyWindow(x, vid)
		return 0, fmt.Errorf("failed to map view window: %w", err)
	}

	x.Sync()
	w.view = vid
	return uint32(vid), nil
}

// MoveView repositions the child rendering window within the wallpaper
// window. No-op when no view exists.
func (w *WallpaperWindow) MoveView(frame Rect) error {
	if w.view == 0 {
		return nil
	}
	x := w.conn.XUtil.Conn()
	return xproto.ConfigureWindowChecked(x, w.view,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(frame.X), uint32(frame.Y),
			uint32(frame.Width), uint32(frame.Height),
		}).Check()
}

// DestroyView removes the child rendering window. Safe to call when no
// view exists.
func (w *WallpaperWindow) DestroyView() error {
	if w.view == 0 {
		return nil
	}
	x := w.conn.XUtil.Conn()
	err := xproto.DestroyWindowChecked(x, w.view).Check()
	w.view = 0
	return err
}

// Obscured reports whether a full-screen client fully covers this window's
// monitor, leaving nothing of the wallpaper visible.
func (w *WallpaperWindow) Obscured() (bool, error) {
	return w.conn.RegionObscured(w.bounds)
}

// Close destroys the window and its view.
func (w *WallpaperWindow) Close() error {
	_ = w.DestroyView()
	if w.win == 0 {
		return nil
	}
	x := w.conn.XUtil.Conn()
	err := xproto.DestroyWindowChecked(x, w.win).Check()
	w.win = 0
	return err
}
