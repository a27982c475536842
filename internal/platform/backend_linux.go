//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Montazar1375/LiveWalli/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns the deduplicated set of connected displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, len(monitors))
	for i, m := range monitors {
		displays[i] = Display{
			Index: m.Index,
			Name:  m.Name,
			Bounds: Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
		}
	}
	return displays, nil
}

// CreateWallpaperWindow creates a below-desktop wallpaper window covering bounds.
func (b *LinuxBackend) CreateWallpaperWindow(bounds Rect) (Window, error) {
	win, err := x11.NewWallpaperWindow(b.conn, toX11Rect(bounds))
	if err != nil {
		return nil, err
	}
	return &linuxWindow{win: win}, nil
}

// linuxWindow adapts x11.WallpaperWindow to the platform Window interface.
type linuxWindow struct {
	win *x11.WallpaperWindow
}

var _ Window = (*linuxWindow)(nil)

func (w *linuxWindow) SetFrame(bounds Rect) error {
	return w.win.SetFrame(toX11Rect(bounds))
}

func (w *linuxWindow) CreateView(frame Rect) (uint32, error) {
	return w.win.CreateView(toX11Rect(frame))
}

func (w *linuxWindow) MoveView(frame Rect) error {
	return w.win.MoveView(toX11Rect(frame))
}

func (w *linuxWindow) DestroyView() error {
	return w.win.DestroyView()
}

func (w *linuxWindow) Obscured() (bool, error) {
	return w.win.Obscured()
}

func (w *linuxWindow) Close() error {
	return w.win.Close()
}

func toX11Rect(r Rect) x11.Rect {
	return x11.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// WatchScreenChanges subscribes onChange to display topology changes.
func (b *LinuxBackend) WatchScreenChanges(ctx context.Context, logger *slog.Logger, onChange func()) error {
	return b.conn.WatchScreenChanges(ctx, logger, onChange)
}
