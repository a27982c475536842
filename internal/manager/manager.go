// Package manager owns the wallpaper surfaces: one per connected display,
// with or without a video assigned. It reconciles the live surfaces against
// the persisted assignments and decides, per surface, whether playback runs.
package manager

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Montazar1375/LiveWalli/internal/platform"
	"github.com/Montazar1375/LiveWalli/internal/surface"
)

// Surface is the per-display wallpaper handle the manager drives.
type Surface interface {
	SetVideo(path string) error
	SetScaleMode(mode surface.Mode) error
	Play() error
	Pause() error
	Playing() bool
	UpdateFrame(bounds platform.Rect) error
	Visible() (bool, error)
	VideoPath() string
	Close() error
}

// Enumerator lists the currently connected displays.
type Enumerator interface {
	Displays() ([]platform.Display, error)
}

// PowerSource reports whether the machine runs on external power.
type PowerSource interface {
	OnACPower() bool
}

// Store is the persisted wallpaper configuration.
type Store interface {
	PathForDisplay(index int) (string, bool)
	SetPathForDisplay(index int, path string) error
	ScaleMode(index int) string
	SetScaleMode(index int, mode string) error
	PowerConnectedOnly() bool
	SetPowerConnectedOnly(v bool) error
}

// SurfaceFactory creates an empty surface covering a display.
type SurfaceFactory func(display platform.Display, mode surface.Mode) (Surface, error)

// DisplayStatus is one display's line in a status report.
type DisplayStatus struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	VideoPath string `json:"video_path,omitempty"`
	ScaleMode string `json:"scale_mode"`
	Playing   bool   `json:"playing"`
}

// Status is a snapshot of the engine state.
type Status struct {
	Displays           []DisplayStatus `json:"displays"`
	Paused             bool            `json:"paused"`
	PowerConnectedOnly bool            `json:"power_connected_only"`
	OnACPower          bool            `json:"on_ac_power"`
}

// Manager reconciles surfaces against displays and persisted assignments.
// All entry points serialize on one lock, so IPC handlers, the tick loop
// and screen-change notifications never interleave.
type Manager struct {
	enum    Enumerator
	power   PowerSource
	store   Store
	factory SurfaceFactory
	logger  *slog.Logger

	mu          sync.Mutex
	surfaces    map[int]Surface
	displays    map[int]platform.Display
	globalPause bool
	stopped     bool
}

// New creates a manager. Call Start to bring up the initial surfaces.
func New(enum Enumerator, power PowerSource, store Store, factory SurfaceFactory, logger *slog.Logger) *Manager {
	return &Manager{
		enum:     enum,
		power:    power,
		store:    store,
		factory:  factory,
		logger:   logger,
		surfaces: make(map[int]Surface),
		displays: make(map[int]platform.Display),
	}
}

// Start performs the initial reconciliation, restoring persisted
// wallpapers onto the connected displays.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcileLocked()
}

// Reconcile aligns surfaces with the connected displays and the store.
// Safe to call at any time; a pass over an already-consistent state
// changes nothing.
func (m *Manager) Reconcile() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcileLocked()
}

func (m *Manager) reconcileLocked() error {
	if m.stopped {
		return nil
	}
	displays, err := m.enum.Displays()
	if err != nil {
		return fmt.Errorf("failed to enumerate displays: %w", err)
	}

	current := make(map[int]platform.Display, len(displays))
	for _, d := range displays {
		current[d.Index] = d
	}

	// Surfaces for disconnected displays go first so their windows are
	// gone before anything else moves.
	for index, s := range m.surfaces {
		if _, ok := current[index]; ok {
			continue
		}
		m.logger.Info("display disconnected, removing surface", "display", index)
		if err := s.Close(); err != nil {
			m.logger.Warn("failed to close surface", "display", index, "error", err)
		}
		delete(m.surfaces, index)
	}

	// Every connected display keeps a surface. Clearing a wallpaper empties
	// the surface but leaves its window up; only disconnection or Stop
	// destroys it.
	for _, d := range displays {
		s, ok := m.surfaces[d.Index]
		if !ok {
			s, err = m.createSurfaceLocked(d)
			if err != nil {
				m.logger.Error("failed to create surface", "display", d.Index, "error", err)
				continue
			}
		} else if prev, known := m.displays[d.Index]; known && prev.Bounds != d.Bounds {
			m.logger.Info("display bounds changed", "display", d.Index, "bounds", d.Bounds)
			if err := s.UpdateFrame(d.Bounds); err != nil {
				m.logger.Warn("failed to resize surface", "display", d.Index, "error", err)
			}
		}

		path, _ := m.store.PathForDisplay(d.Index)
		if s.VideoPath() != path {
			if err := s.SetVideo(path); err != nil {
				m.logger.Error("failed to set video", "display", d.Index, "path", path, "error", err)
				continue
			}
		}
		m.updatePlaybackLocked(d.Index, s)
	}

	m.displays = current
	return nil
}

func (m *Manager) createSurfaceLocked(d platform.Display) (Surface, error) {
	mode, err := surface.ParseScaleMode(m.store.ScaleMode(d.Index))
	if err != nil {
		mode = surface.ModeFill
	}
	s, err := m.factory(d, mode)
	if err != nil {
		return nil, err
	}
	m.surfaces[d.Index] = s
	m.logger.Info("surface created", "display", d.Index, "name", d.Name)
	return s, nil
}

// SetWallpaper assigns a video to a display. The assignment persists even
// when the display is not currently connected; the surface catches up on
// the next reconciliation.
func (m *Manager) SetWallpaper(index int, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return fmt.Errorf("manager stopped")
	}

	if err := m.store.SetPathForDisplay(index, path); err != nil {
		return fmt.Errorf("failed to persist wallpaper: %w", err)
	}
	return m.reconcileLocked()
}

// SetScaleMode changes and persists a display's scale mode.
func (m *Manager) SetScaleMode(index int, mode surface.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return fmt.Errorf("manager stopped")
	}

	if err := m.store.SetScaleMode(index, string(mode)); err != nil {
		return fmt.Errorf("failed to persist scale mode: %w", err)
	}
	if s, ok := m.surfaces[index]; ok {
		return s.SetScaleMode(mode)
	}
	return nil
}

// PauseAll halts playback on every surface until ResumeAll.
func (m *Manager) PauseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.globalPause = true
	m.updateAllPlaybackLocked()
}

// ResumeAll lifts the global pause. Surfaces still paused by power policy
// or occlusion stay paused.
func (m *Manager) ResumeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.globalPause = false
	m.updateAllPlaybackLocked()
}

// IsPaused reports the global pause flag.
func (m *Manager) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globalPause
}

// SetPowerConnectedOnly persists the power policy and re-evaluates
// playback immediately.
func (m *Manager) SetPowerConnectedOnly(v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return fmt.Errorf("manager stopped")
	}
	if err := m.store.SetPowerConnectedOnly(v); err != nil {
		return fmt.Errorf("failed to persist power policy: %w", err)
	}
	m.updateAllPlaybackLocked()
	return nil
}

// Displays lists the connected displays.
func (m *Manager) Displays() ([]platform.Display, error) {
	return m.enum.Displays()
}

// Status reports the engine state for one status call.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		Paused:             m.globalPause,
		PowerConnectedOnly: m.store.PowerConnectedOnly(),
		OnACPower:          m.power.OnACPower(),
	}
	indices := make([]int, 0, len(m.displays))
	for index := range m.displays {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	for _, index := range indices {
		d := m.displays[index]
		ds := DisplayStatus{
			Index:     d.Index,
			Name:      d.Name,
			Width:     d.Bounds.Width,
			Height:    d.Bounds.Height,
			ScaleMode: m.store.ScaleMode(d.Index),
		}
		if s, ok := m.surfaces[d.Index]; ok {
			ds.VideoPath = s.VideoPath()
			ds.Playing = s.Playing()
		}
		st.Displays = append(st.Displays, ds)
	}
	return st
}

// Stop tears down every surface, lowest display index first. A reconcile
// or mutation racing shutdown, from a late tick or screen-change event,
// finds the manager stopped and does nothing.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true

	indices := make([]int, 0, len(m.surfaces))
	for index := range m.surfaces {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	for _, index := range indices {
		if err := m.surfaces[index].Close(); err != nil {
			m.logger.Warn("failed to close surface", "display", index, "error", err)
		}
		delete(m.surfaces, index)
	}
}

// playbackAllowedLocked is the playback decision: not globally paused,
// power policy satisfied, and the surface visible.
func (m *Manager) playbackAllowedLocked(visible bool) bool {
	if m.globalPause {
		return false
	}
	if m.store.PowerConnectedOnly() && !m.power.OnACPower() {
		return false
	}
	return visible
}

func (m *Manager) updatePlaybackLocked(index int, s Surface) {
	// An empty surface has nothing to drive.
	if s.VideoPath() == "" {
		return
	}
	visible, err := s.Visible()
	if err != nil {
		m.logger.Warn("failed to check visibility", "display", index, "error", err)
		visible = true
	}
	var applyErr error
	if m.playbackAllowedLocked(visible) {
		applyErr = s.Play()
	} else {
		applyErr = s.Pause()
	}
	if applyErr != nil {
		m.logger.Warn("failed to update playback", "display", index, "error", applyErr)
	}
}

func (m *Manager) updateAllPlaybackLocked() {
	for index, s := range m.surfaces {
		m.updatePlaybackLocked(index, s)
	}
}
