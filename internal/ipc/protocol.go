package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/Montazar1375/LiveWalli/internal/manager"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetMonitors    CommandType = "GET_MONITORS"
	CommandSetWallpaper   CommandType = "SET_WALLPAPER"
	CommandSetScaleMode   CommandType = "SET_SCALE_MODE"
	CommandPauseAll       CommandType = "PAUSE_ALL"
	CommandResumeAll      CommandType = "RESUME_ALL"
	CommandSetPowerPolicy CommandType = "SET_POWER_POLICY"
	CommandGetRecent      CommandType = "GET_RECENT"
	CommandRemoveRecent   CommandType = "REMOVE_RECENT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning      bool                    `json:"daemon_running"`
	UptimeSeconds      int64                   `json:"uptime_seconds"`
	Paused             bool                    `json:"paused"`
	PowerConnectedOnly bool                    `json:"power_connected_only"`
	OnACPower          bool                    `json:"on_ac_power"`
	Displays           []manager.DisplayStatus `json:"displays"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SetWallpaperPayload assigns a video to a display. An empty path clears
// the assignment.
type SetWallpaperPayload struct {
	Display int    `json:"display"`
	Path    string `json:"path"`
}

type SetScaleModePayload struct {
	Display int    `json:"display"`
	Mode    string `json:"mode"`
}

type SetPowerPolicyPayload struct {
	ConnectedOnly bool `json:"connected_only"`
}

type RemoveRecentPayload struct {
	Path string `json:"path"`
}

// RecentData represents the data returned by GET_RECENT
type RecentData struct {
	Paths []string `json:"paths"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
