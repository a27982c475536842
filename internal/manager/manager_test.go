package manager

import (
	"io"
	"log/slog"
	"testing"

	"github.com/Montazar1375/LiveWalli/internal/platform"
	"github.com/Montazar1375/LiveWalli/internal/surface"
)

type fakeSurface struct {
	path    string
	mode    surface.Mode
	playing bool
	visible bool
	bounds  platform.Rect
	closed  bool
	videos  int // SetVideo calls that actually changed the path
}

func (s *fakeSurface) SetVideo(path string) error {
	if path != s.path {
		s.videos++
	}
	s.path = path
	return nil
}

func (s *fakeSurface) SetScaleMode(mode surface.Mode) error { s.mode = mode; return nil }
func (s *fakeSurface) Play() error                          { s.playing = true; return nil }
func (s *fakeSurface) Pause() error                         { s.playing = false; return nil }
func (s *fakeSurface) Playing() bool                        { return s.playing }
func (s *fakeSurface) UpdateFrame(b platform.Rect) error    { s.bounds = b; return nil }
func (s *fakeSurface) Visible() (bool, error)               { return s.visible, nil }
func (s *fakeSurface) VideoPath() string                    { return s.path }
func (s *fakeSurface) Close() error                         { s.closed = true; return nil }

type fakeEnum struct {
	displays []platform.Display
}

func (e *fakeEnum) Displays() ([]platform.Display, error) { return e.displays, nil }

type fakePower struct {
	ac bool
}

func (p *fakePower) OnACPower() bool { return p.ac }

type fakeStore struct {
	paths     map[int]string
	modes     map[int]string
	powerOnly bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{paths: make(map[int]string), modes: make(map[int]string)}
}

func (s *fakeStore) PathForDisplay(index int) (string, bool) {
	path, ok := s.paths[index]
	return path, ok
}

func (s *fakeStore) SetPathForDisplay(index int, path string) error {
	if path == "" {
		delete(s.paths, index)
	} else {
		s.paths[index] = path
	}
	return nil
}

func (s *fakeStore) ScaleMode(index int) string {
	if m, ok := s.modes[index]; ok {
		return m
	}
	return "fill"
}

func (s *fakeStore) SetScaleMode(index int, mode string) error { s.modes[index] = mode; return nil }
func (s *fakeStore) PowerConnectedOnly() bool                  { return s.powerOnly }
func (s *fakeStore) SetPowerConnectedOnly(v bool) error        { s.powerOnly = v; return nil }

func display(index, w, h int) platform.Display {
	return platform.Display{
		Index:  index,
		Name:   "fake",
		Bounds: platform.Rect{Width: w, Height: h},
	}
}

type fixture struct {
	enum    *fakeEnum
	power   *fakePower
	store   *fakeStore
	created []*fakeSurface
	mgr     *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		enum:  &fakeEnum{},
		power: &fakePower{ac: true},
		store: newFakeStore(),
	}
	factory := func(d platform.Display, mode surface.Mode) (Surface, error) {
		s := &fakeSurface{mode: mode, visible: true, bounds: d.Bounds}
		f.created = append(f.created, s)
		return s, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.mgr = New(f.enum, f.power, f.store, factory, logger)
	return f
}

func TestStartRestoresPersistedWallpapers(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}
	f.store.paths[0] = "/v/a.mp4"
	f.store.paths[1] = "/v/b.mp4"
	f.store.modes[1] = "center"

	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(f.created) != 2 {
		t.Fatalf("created %d surfaces, want 2", len(f.created))
	}
	if f.created[0].path != "/v/a.mp4" || f.created[1].path != "/v/b.mp4" {
		t.Errorf("paths = %q, %q", f.created[0].path, f.created[1].path)
	}
	if f.created[1].mode != surface.ModeCenter {
		t.Errorf("display 1 mode = %v, want center", f.created[1].mode)
	}
	if !f.created[0].playing || !f.created[1].playing {
		t.Error("restored surfaces not playing")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"

	for i := 0; i < 3; i++ {
		if err := f.mgr.Reconcile(); err != nil {
			t.Fatalf("Reconcile #%d: %v", i, err)
		}
	}
	if len(f.created) != 1 {
		t.Fatalf("created %d surfaces, want 1", len(f.created))
	}
	if f.created[0].videos != 1 {
		t.Errorf("video set %d times, want 1", f.created[0].videos)
	}
}

func TestEmptyStoreCreatesIdleSurfaces(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}

	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(f.created) != 2 {
		t.Fatalf("created %d surfaces, want 2 (one per display)", len(f.created))
	}
	for i, s := range f.created {
		if s.path != "" {
			t.Errorf("surface %d has video %q, want none", i, s.path)
		}
		if s.playing {
			t.Errorf("idle surface %d is playing", i)
		}
	}
}

func TestDisplayRemovalAndReturn(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}
	f.store.paths[1] = "/v/b.mp4"
	f.store.modes[1] = "fit"

	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(f.created) != 2 {
		t.Fatalf("created %d surfaces, want 2", len(f.created))
	}
	first := f.created[1]

	f.enum.displays = f.enum.displays[:1]
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile after removal: %v", err)
	}
	if !first.closed {
		t.Error("surface not closed after display removal")
	}
	if f.created[0].closed {
		t.Error("surface for the remaining display was closed")
	}

	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile after return: %v", err)
	}
	if len(f.created) != 3 {
		t.Fatalf("created %d surfaces total, want 3", len(f.created))
	}
	restored := f.created[2]
	if restored.path != "/v/b.mp4" || restored.mode != surface.ModeFit {
		t.Errorf("restored surface = %q/%v, want /v/b.mp4/fit", restored.path, restored.mode)
	}
}

func TestBoundsChangeResizesSurface(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 1920, 1080)}
	f.store.paths[0] = "/v/a.mp4"

	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("surface recreated instead of resized")
	}
	want := platform.Rect{Width: 2560, Height: 1440}
	if f.created[0].bounds != want {
		t.Errorf("bounds = %+v, want %+v", f.created[0].bounds, want)
	}
}

func TestSetWallpaperAppliesToLiveSurface(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.mgr.SetWallpaper(0, "/v/a.mp4"); err != nil {
		t.Fatalf("SetWallpaper: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("created %d surfaces, want the 1 from Start", len(f.created))
	}
	if f.created[0].path != "/v/a.mp4" || !f.created[0].playing {
		t.Errorf("surface = %q playing=%v", f.created[0].path, f.created[0].playing)
	}
	if f.store.paths[0] != "/v/a.mp4" {
		t.Error("assignment not persisted")
	}
}

func TestSetWallpaperForDisconnectedDisplayPersistsOnly(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.mgr.SetWallpaper(3, "/v/later.mp4"); err != nil {
		t.Fatalf("SetWallpaper: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("created %d surfaces, want only the connected display's", len(f.created))
	}
	if f.store.paths[3] != "/v/later.mp4" {
		t.Error("assignment not persisted")
	}

	// The display shows up later; the persisted assignment applies.
	f.enum.displays = append(f.enum.displays, display(3, 1920, 1080))
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(f.created) != 2 || f.created[1].path != "/v/later.mp4" {
		t.Fatalf("persisted assignment not applied on connect")
	}
}

func TestClearWallpaperEmptiesSurface(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.mgr.SetWallpaper(0, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if f.created[0].closed {
		t.Error("clearing a wallpaper destroyed the surface window")
	}
	if f.created[0].path != "" {
		t.Errorf("surface still has video %q after clearing", f.created[0].path)
	}
	if _, ok := f.store.paths[0]; ok {
		t.Error("assignment still persisted after clearing")
	}

	// The same surface picks up the next assignment.
	if err := f.mgr.SetWallpaper(0, "/v/b.mp4"); err != nil {
		t.Fatalf("SetWallpaper: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("created %d surfaces, want 1 reused", len(f.created))
	}
	if f.created[0].path != "/v/b.mp4" {
		t.Errorf("surface path = %q, want /v/b.mp4", f.created[0].path)
	}
}

func TestGlobalPauseAndResume(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.mgr.PauseAll()
	if f.created[0].playing {
		t.Error("surface still playing after PauseAll")
	}
	if !f.mgr.IsPaused() {
		t.Error("IsPaused = false after PauseAll")
	}

	// Reconciliation must not undo the pause.
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if f.created[0].playing {
		t.Error("reconcile resumed a globally paused surface")
	}

	f.mgr.ResumeAll()
	if !f.created[0].playing {
		t.Error("surface not playing after ResumeAll")
	}
}

func TestPowerPolicyPausesOnBattery(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	f.power.ac = false
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !f.created[0].playing {
		t.Fatal("no power policy yet, surface should play on battery")
	}

	if err := f.mgr.SetPowerConnectedOnly(true); err != nil {
		t.Fatalf("SetPowerConnectedOnly: %v", err)
	}
	if f.created[0].playing {
		t.Error("surface playing on battery with power policy set")
	}

	// Plugging in recovers playback on the next pass.
	f.power.ac = true
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !f.created[0].playing {
		t.Error("surface not playing on AC with power policy set")
	}
}

func TestOcclusionPausesPlayback(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.created[0].visible = false
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if f.created[0].playing {
		t.Error("occluded surface still playing")
	}

	f.created[0].visible = true
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !f.created[0].playing {
		t.Error("visible surface not playing")
	}
}

func TestSetScaleModePersistsAndApplies(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.mgr.SetScaleMode(0, surface.ModeStretch); err != nil {
		t.Fatalf("SetScaleMode: %v", err)
	}
	if f.created[0].mode != surface.ModeStretch {
		t.Errorf("live surface mode = %v, want stretch", f.created[0].mode)
	}
	if f.store.modes[0] != "stretch" {
		t.Errorf("persisted mode = %q, want stretch", f.store.modes[0])
	}

	// Persisting for a disconnected display works too.
	if err := f.mgr.SetScaleMode(5, surface.ModeFit); err != nil {
		t.Fatalf("SetScaleMode absent: %v", err)
	}
	if f.store.modes[5] != "fit" {
		t.Errorf("persisted mode = %q, want fit", f.store.modes[5])
	}
}

func TestStopClosesAllSurfaces(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}
	f.store.paths[0] = "/v/a.mp4"
	f.store.paths[1] = "/v/b.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.mgr.Stop()
	for i, s := range f.created {
		if !s.closed {
			t.Errorf("surface %d not closed", i)
		}
	}
	st := f.mgr.Status()
	for _, d := range st.Displays {
		if d.VideoPath != "" {
			t.Errorf("display %d still reports a video after Stop", d.Index)
		}
	}
}

func TestReconcileAfterStopCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.mgr.Stop()

	// A screen-change event or tick can still land after shutdown began.
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile after Stop: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("late reconcile created a surface after Stop (total %d)", len(f.created))
	}
	if !f.created[0].closed {
		t.Error("surface reopened after Stop")
	}
	if err := f.mgr.SetWallpaper(0, "/v/b.mp4"); err == nil {
		t.Error("SetWallpaper succeeded after Stop")
	}
	f.mgr.ResumeAll()
	if len(f.created) != 1 {
		t.Errorf("mutation after Stop created a surface")
	}
}

func TestResumeAllKeepsPowerRestrictedPause(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440)}
	f.store.paths[0] = "/v/a.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.mgr.PauseAll()
	f.power.ac = false
	if err := f.mgr.SetPowerConnectedOnly(true); err != nil {
		t.Fatalf("SetPowerConnectedOnly: %v", err)
	}

	// Lifting the global pause must not override the power policy.
	f.mgr.ResumeAll()
	if f.created[0].playing {
		t.Error("surface playing on battery after ResumeAll with power policy set")
	}
	if f.mgr.IsPaused() {
		t.Error("global pause still set after ResumeAll")
	}

	f.power.ac = true
	if err := f.mgr.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !f.created[0].playing {
		t.Error("surface not playing once back on AC")
	}
}

func TestStatusSnapshot(t *testing.T) {
	f := newFixture(t)
	f.enum.displays = []platform.Display{display(0, 2560, 1440), display(1, 1920, 1080)}
	f.store.paths[1] = "/v/b.mp4"
	if err := f.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	st := f.mgr.Status()
	if len(st.Displays) != 2 {
		t.Fatalf("status has %d displays, want 2", len(st.Displays))
	}
	if st.Displays[0].VideoPath != "" || st.Displays[1].VideoPath != "/v/b.mp4" {
		t.Errorf("status paths = %q, %q", st.Displays[0].VideoPath, st.Displays[1].VideoPath)
	}
	if !st.Displays[1].Playing {
		t.Error("assigned display not reported playing")
	}
	if st.Paused || st.PowerConnectedOnly || !st.OnACPower {
		t.Errorf("flags = %+v", st)
	}
}
