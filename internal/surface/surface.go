// Package surface owns one wallpaper window per display: the borderless
// desktop-level window, its rendering view and the video player driving it.
package surface

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Montazar1375/LiveWalli/internal/platform"
	"github.com/Montazar1375/LiveWalli/internal/player"
)

// Mode is a video scale mode as persisted in the wallpaper store.
type Mode string

const (
	// ModeFill crops the video to cover the display.
	ModeFill Mode = "fill"
	// ModeFit letterboxes the video inside the display.
	ModeFit Mode = "fit"
	// ModeStretch distorts the video to the exact display size.
	ModeStretch Mode = "stretch"
	// ModeCenter shows the video at native size, centered.
	ModeCenter Mode = "center"
)

// ParseScaleMode validates a persisted or user-supplied scale mode string.
func ParseScaleMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFill, ModeFit, ModeStretch, ModeCenter:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown scale mode %q (use fill, fit, stretch or center)", s)
}

func gravityFor(mode Mode) player.Gravity {
	switch mode {
	case ModeFit:
		return player.GravityAspect
	case ModeStretch:
		return player.GravityStretch
	case ModeCenter:
		// Native-sized view, so aspect mapping shows the video 1:1.
		return player.GravityAspect
	default:
		return player.GravityAspectFill
	}
}

// Surface is one display's wallpaper. All mutation goes through its lock;
// player observers re-enter through exported methods and must find a
// consistent state.
type Surface struct {
	logger  *slog.Logger
	factory player.Factory

	mu        sync.Mutex
	win       platform.Window
	bounds    platform.Rect
	videoPath string
	mode      Mode
	player    player.Player
	playing   bool
	closed    bool
}

// New wraps an already-created wallpaper window. The surface starts empty
// and paused until a video is set.
func New(win platform.Window, bounds platform.Rect, mode Mode, factory player.Factory, logger *slog.Logger) *Surface {
	if mode == "" {
		mode = ModeFill
	}
	return &Surface{
		logger:  logger,
		factory: factory,
		win:     win,
		bounds:  bounds,
		mode:    mode,
	}
}

// VideoPath returns the path of the currently playing video, or "".
func (s *Surface) VideoPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoPath
}

// Mode returns the current scale mode.
func (s *Surface) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetVideo replaces the surface's video. Setting the path it already plays
// is a no-op; setting "" clears the surface. On player startup failure the
// surface is left empty.
func (s *Surface) SetVideo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("surface closed")
	}
	if path == s.videoPath {
		return nil
	}

	s.teardownLocked()
	if path == "" {
		return nil
	}

	viewFrame := VideoFrame(s.mode, player.Size{}, 0, s.bounds)
	viewID, err := s.win.CreateView(viewFrame)
	if err != nil {
		return fmt.Errorf("failed to create rendering view: %w", err)
	}

	p, err := s.factory(path, viewID, gravityFor(s.mode))
	if err != nil {
		s.win.DestroyView()
		return fmt.Errorf("failed to start player for %s: %w", path, err)
	}

	// Observers capture this player; a handler firing after the player
	// was replaced finds the identity check failing and does nothing.
	p.OnEndOfMedia(func() { s.handleEndOfMedia(p) })
	p.OnVideoReconfig(func() { s.handleVideoReconfig(p) })

	s.player = p
	s.videoPath = path
	s.applyPlayStateLocked()
	return nil
}

// SetScaleMode changes how the video maps onto the display.
func (s *Surface) SetScaleMode(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("surface closed")
	}
	if mode == s.mode {
		return nil
	}
	s.mode = mode
	if s.player == nil {
		return nil
	}
	if err := s.player.SetGravity(gravityFor(mode)); err != nil {
		return err
	}
	return s.repositionViewLocked()
}

// Play starts playback. No-op when already playing or empty.
func (s *Surface) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("surface closed")
	}
	if s.playing {
		return nil
	}
	s.playing = true
	if s.player == nil {
		return nil
	}
	return s.player.Play()
}

// Pause halts playback on the current frame. No-op when already paused.
func (s *Surface) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("surface closed")
	}
	if !s.playing {
		return nil
	}
	s.playing = false
	if s.player == nil {
		return nil
	}
	return s.player.Pause()
}

// Playing reports the desired playback state.
func (s *Surface) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// UpdateFrame moves the surface to new display bounds.
func (s *Surface) UpdateFrame(bounds platform.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("surface closed")
	}
	s.bounds = bounds
	if err := s.win.SetFrame(bounds); err != nil {
		return err
	}
	if s.player == nil {
		return nil
	}
	return s.repositionViewLocked()
}

// Visible reports whether the surface can currently be seen, false when a
// full-screen client covers its display.
func (s *Surface) Visible() (bool, error) {
	s.mu.Lock()
	win := s.win
	s.mu.Unlock()
	obscured, err := win.Obscured()
	if err != nil {
		return false, err
	}
	return !obscured, nil
}

// Close tears the surface down: player, view, then the window itself.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.teardownLocked()
	return s.win.Close()
}

// teardownLocked removes the current video: pause, close the player (which
// deregisters its observers), then the view. Order matters so no frame of
// the old video renders during replacement.
func (s *Surface) teardownLocked() {
	if s.player != nil {
		s.player.Pause()
		s.player.Close()
		s.player = nil
	}
	s.win.DestroyView()
	s.videoPath = ""
}

func (s *Surface) applyPlayStateLocked() {
	if s.player == nil {
		return
	}
	var err error
	if s.playing {
		err = s.player.Play()
	} else {
		err = s.player.Pause()
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to apply playback state", "path", s.videoPath, "error", err)
	}
}

func (s *Surface) repositionViewLocked() error {
	size, rotation, ok := s.player.NaturalSize()
	if !ok {
		size = player.Size{}
	}
	return s.win.MoveView(VideoFrame(s.mode, size, rotation, s.bounds))
}

// handleEndOfMedia loops the video. Fires on a player goroutine; a stale
// player is ignored.
func (s *Surface) handleEndOfMedia(p player.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != p {
		return
	}
	if err := p.SeekStart(); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to restart video", "path", s.videoPath, "error", err)
		}
		return
	}
	if s.playing {
		p.Play()
	}
}

// handleVideoReconfig re-centers the view once the track size is known.
func (s *Surface) handleVideoReconfig(p player.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != p || s.mode != ModeCenter {
		return
	}
	if err := s.repositionViewLocked(); err != nil && s.logger != nil {
		s.logger.Warn("failed to reposition view", "path", s.videoPath, "error", err)
	}
}
