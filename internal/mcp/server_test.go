package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/Montazar1375/LiveWalli/internal/ipc"
)

type fakeClient struct {
	status   ipc.StatusData
	monitors ipc.MonitorsData
	recent   ipc.RecentData
	calls    []string
	err      error
}

func (c *fakeClient) GetStatus() (*ipc.StatusData, error) {
	c.calls = append(c.calls, "status")
	if c.err != nil {
		return nil, c.err
	}
	return &c.status, nil
}

func (c *fakeClient) GetMonitors() (*ipc.MonitorsData, error) {
	c.calls = append(c.calls, "monitors")
	if c.err != nil {
		return nil, c.err
	}
	return &c.monitors, nil
}

func (c *fakeClient) SetWallpaper(display int, path string) error {
	c.calls = append(c.calls, "set")
	return c.err
}

func (c *fakeClient) ClearWallpaper(display int) error {
	c.calls = append(c.calls, "clear")
	return c.err
}

func (c *fakeClient) SetScaleMode(display int, mode string) error {
	c.calls = append(c.calls, "scale")
	return c.err
}

func (c *fakeClient) PauseAll() error {
	c.calls = append(c.calls, "pause")
	return c.err
}

func (c *fakeClient) ResumeAll() error {
	c.calls = append(c.calls, "resume")
	return c.err
}

func (c *fakeClient) SetPowerPolicy(connectedOnly bool) error {
	c.calls = append(c.calls, "power")
	return c.err
}

func (c *fakeClient) GetRecent() (*ipc.RecentData, error) {
	c.calls = append(c.calls, "recent")
	if c.err != nil {
		return nil, c.err
	}
	return &c.recent, nil
}

func TestListMonitorsTool(t *testing.T) {
	client := &fakeClient{
		monitors: ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
			{Index: 0, Name: "DP-1", Width: 2560, Height: 1440},
			{Index: 1, Name: "HDMI-1", Width: 1920, Height: 1080},
		}},
	}
	s := newServer(client)

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("handleListMonitors: %v", err)
	}
	if len(out.Monitors) != 2 {
		t.Fatalf("got %d monitors, want 2", len(out.Monitors))
	}
	if out.Monitors[1].Name != "HDMI-1" || out.Monitors[1].Width != 1920 {
		t.Errorf("monitor 1 = %+v", out.Monitors[1])
	}
}

func TestGetStatusTool(t *testing.T) {
	client := &fakeClient{
		status: ipc.StatusData{
			Paused:    true,
			OnACPower: true,
		},
	}
	s := newServer(client)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus: %v", err)
	}
	if !out.Paused || !out.OnACPower || out.PowerConnectedOnly {
		t.Errorf("status = %+v", out)
	}
}

func TestSetWallpaperToolPropagatesError(t *testing.T) {
	client := &fakeClient{err: errors.New("daemon error: File not found.")}
	s := newServer(client)

	_, _, err := s.handleSetWallpaper(context.Background(), nil, SetWallpaperInput{Display: 0, Path: "/v/x.mp4"})
	if err == nil {
		t.Fatal("expected error from daemon")
	}
}

func TestPauseResumeTools(t *testing.T) {
	client := &fakeClient{}
	s := newServer(client)

	_, pauseOut, err := s.handlePausePlayback(context.Background(), nil, PausePlaybackInput{})
	if err != nil || !pauseOut.Paused {
		t.Fatalf("pause = %+v, %v", pauseOut, err)
	}
	_, resumeOut, err := s.handleResumePlayback(context.Background(), nil, ResumePlaybackInput{})
	if err != nil || resumeOut.Paused {
		t.Fatalf("resume = %+v, %v", resumeOut, err)
	}
	if len(client.calls) != 2 || client.calls[0] != "pause" || client.calls[1] != "resume" {
		t.Errorf("calls = %v", client.calls)
	}
}

func TestRecentWallpapersTool(t *testing.T) {
	client := &fakeClient{recent: ipc.RecentData{Paths: []string{"/v/a.mp4", "/v/b.mp4"}}}
	s := newServer(client)

	_, out, err := s.handleRecentWallpapers(context.Background(), nil, RecentWallpapersInput{})
	if err != nil {
		t.Fatalf("handleRecentWallpapers: %v", err)
	}
	if len(out.Paths) != 2 || out.Paths[0] != "/v/a.mp4" {
		t.Errorf("paths = %v", out.Paths)
	}
}
