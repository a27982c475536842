package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/Montazar1375/LiveWalli/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves engine status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// SetWallpaper assigns a video to a display
func (c *Client) SetWallpaper(display int, path string) error {
	payload, err := json.Marshal(SetWallpaperPayload{Display: display, Path: path})
	if err != nil {
		return fmt.Errorf("failed to marshal set payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSetWallpaper, Payload: payload})
	return err
}

// ClearWallpaper removes a display's video assignment
func (c *Client) ClearWallpaper(display int) error {
	return c.SetWallpaper(display, "")
}

// SetScaleMode changes a display's scale mode
func (c *Client) SetScaleMode(display int, mode string) error {
	payload, err := json.Marshal(SetScaleModePayload{Display: display, Mode: mode})
	if err != nil {
		return fmt.Errorf("failed to marshal scale payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSetScaleMode, Payload: payload})
	return err
}

// PauseAll halts playback on every display
func (c *Client) PauseAll() error {
	_, err := c.sendRequest(&Request{Command: CommandPauseAll})
	return err
}

// ResumeAll lifts the global pause
func (c *Client) ResumeAll() error {
	_, err := c.sendRequest(&Request{Command: CommandResumeAll})
	return err
}

// SetPowerPolicy toggles the play-only-on-AC-power policy
func (c *Client) SetPowerPolicy(connectedOnly bool) error {
	payload, err := json.Marshal(SetPowerPolicyPayload{ConnectedOnly: connectedOnly})
	if err != nil {
		return fmt.Errorf("failed to marshal power payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSetPowerPolicy, Payload: payload})
	return err
}

// GetRecent retrieves the recently used wallpaper paths
func (c *Client) GetRecent() (*RecentData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetRecent})
	if err != nil {
		return nil, err
	}

	var recent RecentData
	if err := json.Unmarshal(resp.Data, &recent); err != nil {
		return nil, fmt.Errorf("failed to parse recent data: %w", err)
	}

	return &recent, nil
}

// RemoveRecent drops one path from the recent list
func (c *Client) RemoveRecent(path string) error {
	payload, err := json.Marshal(RemoveRecentPayload{Path: path})
	if err != nil {
		return fmt.Errorf("failed to marshal remove payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandRemoveRecent, Payload: payload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
