package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/Montazar1375/LiveWalli/internal/codec"
	"github.com/Montazar1375/LiveWalli/internal/manager"
	"github.com/Montazar1375/LiveWalli/internal/runtimepath"
	"github.com/Montazar1375/LiveWalli/internal/surface"
)

// RecentStore tracks recently used wallpaper paths.
type RecentStore interface {
	RecentPaths() []string
	AddRecentPath(path string) error
	RemoveRecentPath(path string) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	mgr          *manager.Manager
	recents      RecentStore
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(mgr *manager.Manager, recents RecentStore) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		mgr:        mgr,
		recents:    recents,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandSetWallpaper:
		return s.handleSetWallpaper(req.Payload)
	case CommandSetScaleMode:
		return s.handleSetScaleMode(req.Payload)
	case CommandPauseAll:
		s.mgr.PauseAll()
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandResumeAll:
		s.mgr.ResumeAll()
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandSetPowerPolicy:
		return s.handleSetPowerPolicy(req.Payload)
	case CommandGetRecent:
		resp, _ := NewOKResponse(RecentData{Paths: s.recents.RecentPaths()})
		return resp
	case CommandRemoveRecent:
		return s.handleRemoveRecent(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns current engine status
func (s *Server) handleGetStatus() *Response {
	st := s.mgr.Status()

	status := StatusData{
		DaemonRunning:      true,
		UptimeSeconds:      int64(time.Since(s.startTime).Seconds()),
		Paused:             st.Paused,
		PowerConnectedOnly: st.PowerConnectedOnly,
		OnACPower:          st.OnACPower,
		Displays:           st.Displays,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	displays, err := s.mgr.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			Index:  d.Index,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

// handleSetWallpaper assigns or clears a display's video
func (s *Server) handleSetWallpaper(payload json.RawMessage) *Response {
	var req SetWallpaperPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set payload: %v", err))
	}
	if req.Display < 0 {
		return NewErrorResponse("display index must be non-negative")
	}

	if req.Path != "" {
		if ok, reason := codec.CheckPlayable(req.Path); !ok {
			return NewErrorResponse(reason)
		}
		if err := s.recents.AddRecentPath(req.Path); err != nil {
			log.Printf("Failed to record recent path: %v", err)
		}
	}

	log.Printf("IPC: Set wallpaper display=%d path=%q", req.Display, req.Path)

	if err := s.mgr.SetWallpaper(req.Display, req.Path); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set wallpaper: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetScaleMode(payload json.RawMessage) *Response {
	var req SetScaleModePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid scale payload: %v", err))
	}

	mode, err := surface.ParseScaleMode(req.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	if err := s.mgr.SetScaleMode(req.Display, mode); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set scale mode: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetPowerPolicy(payload json.RawMessage) *Response {
	var req SetPowerPolicyPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid power payload: %v", err))
	}

	if err := s.mgr.SetPowerConnectedOnly(req.ConnectedOnly); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set power policy: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRemoveRecent(payload json.RawMessage) *Response {
	var req RemoveRecentPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove payload: %v", err))
	}
	if req.Path == "" {
		return NewErrorResponse("path is required")
	}

	if err := s.recents.RemoveRecentPath(req.Path); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to remove recent path: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
