package player

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	socketDialRetries  = 50
	socketDialInterval = 50 * time.Millisecond
	quitGracePeriod    = 2 * time.Second
)

// Options configures the mpv player factory.
type Options struct {
	// BinPath is the mpv binary. Default "mpv".
	BinPath string
	// ExtraArgs are appended to every mpv invocation.
	ExtraArgs []string
	// SocketDir holds the per-player IPC sockets.
	SocketDir string
	Logger    *slog.Logger
}

// NewMPVFactory returns a Factory that spawns one mpv process per video,
// embedded into the target window via --wid and controlled over its JSON
// IPC socket.
func NewMPVFactory(opts Options) Factory {
	if opts.BinPath == "" {
		opts.BinPath = "mpv"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return func(path string, viewID uint32, gravity Gravity) (Player, error) {
		return newMPV(opts, path, viewID, gravity)
	}
}

// MPV is a Player backed by an mpv child process.
type MPV struct {
	cmd        *exec.Cmd
	conn       net.Conn
	socketPath string
	logger     *slog.Logger

	writeMu sync.Mutex // serializes socket writes

	mu         sync.Mutex
	nextID     int
	pending    map[int]chan ipcResponse
	onEnd      func()
	onReconfig func()
	natural    Size
	rotation   int
	sizeKnown  bool
	closed     bool
}

var _ Player = (*MPV)(nil)

func newMPV(opts Options, path string, viewID uint32, gravity Gravity) (*MPV, error) {
	socketPath := filepath.Join(opts.SocketDir,
		fmt.Sprintf("mpv-%d-%d.sock", viewID, time.Now().UnixNano()))

	args := []string{
		"--wid=" + strconv.FormatUint(uint64(viewID), 10),
		"--no-config",
		"--really-quiet",
		"--no-input-default-bindings",
		"--no-osc",
		"--no-osd-bar",
		"--aid=no",
		"--loop-file=no",
		// Hold the last frame at end-of-media; looping is driven by the
		// end-of-media observer, not by mpv.
		"--keep-open=yes",
		"--input-ipc-server=" + socketPath,
	}
	args = append(args, gravityArgs(gravity)...)
	args = append(args, opts.ExtraArgs...)
	args = append(args, path)

	cmd := exec.Command(opts.BinPath, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	conn, err := dialWithRetry(socketPath)
	if err != nil {
		cmd.Process.Kill()
		go cmd.Wait()
		return nil, fmt.Errorf("failed to connect to mpv ipc: %w", err)
	}

	m := &MPV{
		cmd:        cmd,
		conn:       conn,
		socketPath: socketPath,
		logger:     opts.Logger,
		pending:    make(map[int]chan ipcResponse),
	}
	go m.readLoop()

	// End-of-media is observed as the eof-reached property flipping true.
	if _, err := m.command("observe_property", 1, "eof-reached"); err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to observe end of media: %w", err)
	}

	return m, nil
}

// dialWithRetry waits for mpv to create its IPC socket.
func dialWithRetry(socketPath string) (net.Conn, error) {
	var lastErr error
	for i := 0; i < socketDialRetries; i++ {
		conn, err := net.DialTimeout("unix", socketPath, socketDialInterval)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(socketDialInterval)
	}
	return nil, lastErr
}

func gravityArgs(g Gravity) []string {
	switch g {
	case GravityAspectFill:
		return []string{"--keepaspect=yes", "--panscan=1.0"}
	case GravityStretch:
		return []string{"--keepaspect=no"}
	default:
		return []string{"--keepaspect=yes", "--panscan=0.0"}
	}
}

// Play resumes playback.
func (m *MPV) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

// Pause pauses playback.
func (m *MPV) Pause() error {
	_, err := m.command("set_property", "pause", true)
	return err
}

// SeekStart rewinds to time zero.
func (m *MPV) SeekStart() error {
	_, err := m.command("seek", 0, "absolute")
	return err
}

// SetGravity remaps the video onto its view.
func (m *MPV) SetGravity(g Gravity) error {
	keepaspect := g != GravityStretch
	panscan := 0.0
	if g == GravityAspectFill {
		panscan = 1.0
	}
	if _, err := m.command("set_property", "keepaspect", keepaspect); err != nil {
		return err
	}
	_, err := m.command("set_property", "panscan", panscan)
	return err
}

// NaturalSize returns the cached native frame size and rotation.
func (m *MPV) NaturalSize() (Size, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.natural, m.rotation, m.sizeKnown
}

// OnEndOfMedia registers the end-of-media observer.
func (m *MPV) OnEndOfMedia(fn func()) {
	m.mu.Lock()
	m.onEnd = fn
	m.mu.Unlock()
}

// OnVideoReconfig registers the track-information observer.
func (m *MPV) OnVideoReconfig(fn func()) {
	m.mu.Lock()
	m.onReconfig = fn
	m.mu.Unlock()
}

// Close shuts the player down: pause, quit mpv, release the socket. It
// never blocks on in-flight observer callbacks, so it is safe to call
// while holding the owning surface's lock.
func (m *MPV) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.onEnd = nil
	m.onReconfig = nil
	m.mu.Unlock()

	// Best-effort: ask mpv to exit before cutting the socket.
	m.writeMu.Lock()
	fmt.Fprintf(m.conn, "{\"command\":[\"quit\"]}\n")
	m.writeMu.Unlock()
	m.conn.Close()

	cmd := m.cmd
	socketPath := m.socketPath
	go func() {
		done := make(chan struct{})
		go func() {
			cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(quitGracePeriod):
			if m.logger != nil {
				m.logger.Warn("mpv ignored quit, killing", "pid", cmd.Process.Pid)
			}
			cmd.Process.Kill()
			<-done
		}
		os.Remove(socketPath)
	}()

	return nil
}

// refreshVideoParams queries the current track geometry. Runs on its own
// goroutine because it issues commands that the read loop must answer.
func (m *MPV) refreshVideoParams() {
	w, errW := m.getPropertyInt("video-params/w")
	h, errH := m.getPropertyInt("video-params/h")
	rotate, _ := m.getPropertyInt("video-params/rotate")
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return
	}

	m.mu.Lock()
	m.natural = Size{Width: w, Height: h}
	m.rotation = rotate
	m.sizeKnown = true
	fn := m.onReconfig
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (m *MPV) getPropertyInt(name string) (int, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := data.decode(&v); err != nil {
		return 0, err
	}
	return int(v), nil
}
