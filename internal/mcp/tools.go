package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	monitors, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, len(monitors.Monitors))}
	for i, m := range monitors.Monitors {
		out.Monitors[i] = MonitorInfo{
			Index:  m.Index,
			Name:   m.Name,
			Width:  m.Width,
			Height: m.Height,
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}

	out := GetStatusOutput{
		Paused:             status.Paused,
		PowerConnectedOnly: status.PowerConnectedOnly,
		OnACPower:          status.OnACPower,
		Displays:           make([]DisplayInfo, len(status.Displays)),
	}
	for i, d := range status.Displays {
		out.Displays[i] = DisplayInfo{
			Index:     d.Index,
			Name:      d.Name,
			VideoPath: d.VideoPath,
			ScaleMode: d.ScaleMode,
			Playing:   d.Playing,
		}
	}
	return nil, out, nil
}

func (s *Server) handleSetWallpaper(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWallpaperInput) (*mcpsdk.CallToolResult, SetWallpaperOutput, error) {
	if err := s.client.SetWallpaper(args.Display, args.Path); err != nil {
		return nil, SetWallpaperOutput{}, err
	}
	return nil, SetWallpaperOutput{Display: args.Display, Path: args.Path}, nil
}

func (s *Server) handleClearWallpaper(_ context.Context, _ *mcpsdk.CallToolRequest, args ClearWallpaperInput) (*mcpsdk.CallToolResult, ClearWallpaperOutput, error) {
	if err := s.client.ClearWallpaper(args.Display); err != nil {
		return nil, ClearWallpaperOutput{}, err
	}
	return nil, ClearWallpaperOutput{Display: args.Display}, nil
}

func (s *Server) handleSetScaleMode(_ context.Context, _ *mcpsdk.CallToolRequest, args SetScaleModeInput) (*mcpsdk.CallToolResult, SetScaleModeOutput, error) {
	if err := s.client.SetScaleMode(args.Display, args.Mode); err != nil {
		return nil, SetScaleModeOutput{}, err
	}
	return nil, SetScaleModeOutput{Display: args.Display, Mode: args.Mode}, nil
}

func (s *Server) handlePausePlayback(_ context.Context, _ *mcpsdk.CallToolRequest, _ PausePlaybackInput) (*mcpsdk.CallToolResult, PausePlaybackOutput, error) {
	if err := s.client.PauseAll(); err != nil {
		return nil, PausePlaybackOutput{}, err
	}
	return nil, PausePlaybackOutput{Paused: true}, nil
}

func (s *Server) handleResumePlayback(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResumePlaybackInput) (*mcpsdk.CallToolResult, ResumePlaybackOutput, error) {
	if err := s.client.ResumeAll(); err != nil {
		return nil, ResumePlaybackOutput{}, err
	}
	return nil, ResumePlaybackOutput{Paused: false}, nil
}

func (s *Server) handleSetPowerPolicy(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPowerPolicyInput) (*mcpsdk.CallToolResult, SetPowerPolicyOutput, error) {
	if err := s.client.SetPowerPolicy(args.ConnectedOnly); err != nil {
		return nil, SetPowerPolicyOutput{}, err
	}
	return nil, SetPowerPolicyOutput{ConnectedOnly: args.ConnectedOnly}, nil
}

func (s *Server) handleRecentWallpapers(_ context.Context, _ *mcpsdk.CallToolRequest, _ RecentWallpapersInput) (*mcpsdk.CallToolResult, RecentWallpapersOutput, error) {
	recent, err := s.client.GetRecent()
	if err != nil {
		return nil, RecentWallpapersOutput{}, err
	}
	return nil, RecentWallpapersOutput{Paths: recent.Paths}, nil
}
