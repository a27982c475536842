// Package mcp exposes the wallpaper engine to MCP clients. The server
// runs as a thin stdio frontend that relays every tool call to the
// daemon over its IPC socket.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Montazar1375/LiveWalli/internal/ipc"
)

const (
	ServerName    = "livewalli"
	ServerVersion = "0.1.0"
)

// daemonClient is the slice of the IPC client the tools need.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	SetWallpaper(display int, path string) error
	ClearWallpaper(display int) error
	SetScaleMode(display int, mode string) error
	PauseAll() error
	ResumeAll() error
	SetPowerPolicy(connectedOnly bool) error
	GetRecent() (*ipc.RecentData, error)
}

// Server is the MCP server for wallpaper control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates an MCP server talking to the local daemon.
func NewServer() *Server {
	return newServer(ipc.NewClient())
}

func newServer(client daemonClient) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected displays with their index, name and resolution. The index is the key used by set_wallpaper and set_scale_mode.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the wallpaper engine state: per-display video assignments, playback state, global pause flag and power policy.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_wallpaper",
		Description: "Assign a video file as the live wallpaper of one display. The assignment persists across restarts and display reconnects.",
	}, s.handleSetWallpaper)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clear_wallpaper",
		Description: "Remove the wallpaper from one display and delete its persisted assignment.",
	}, s.handleClearWallpaper)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_scale_mode",
		Description: "Change how a display's video is scaled: fill (crop to cover), fit (letterbox), stretch (distort) or center (native size).",
	}, s.handleSetScaleMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pause_playback",
		Description: "Pause wallpaper playback on every display until resume_playback is called.",
	}, s.handlePausePlayback)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resume_playback",
		Description: "Resume wallpaper playback on every display. Displays paused by the power policy or covered by a full-screen window stay paused.",
	}, s.handleResumePlayback)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_power_policy",
		Description: "Toggle the power policy. When enabled, wallpapers only play while the machine runs on external power.",
	}, s.handleSetPowerPolicy)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recent_wallpapers",
		Description: "List recently used wallpaper video paths, most recent first.",
	}, s.handleRecentWallpapers)
}
