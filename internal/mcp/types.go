package mcp

// SetWallpaperInput is the input for the set_wallpaper tool.
type SetWallpaperInput struct {
	Display int    `json:"display" jsonschema:"required,Display index as reported by list_monitors"`
	Path    string `json:"path" jsonschema:"required,Absolute path to the video file (.mp4 or .mov)"`
}

// SetWallpaperOutput is the output for the set_wallpaper tool.
type SetWallpaperOutput struct {
	Display int    `json:"display"`
	Path    string `json:"path"`
}

// ClearWallpaperInput is the input for the clear_wallpaper tool.
type ClearWallpaperInput struct {
	Display int `json:"display" jsonschema:"required,Display index whose wallpaper should be removed"`
}

// ClearWallpaperOutput is the output for the clear_wallpaper tool.
type ClearWallpaperOutput struct {
	Display int `json:"display"`
}

// SetScaleModeInput is the input for the set_scale_mode tool.
type SetScaleModeInput struct {
	Display int    `json:"display" jsonschema:"required,Display index as reported by list_monitors"`
	Mode    string `json:"mode" jsonschema:"required,Scale mode: fill, fit, stretch or center"`
}

// SetScaleModeOutput is the output for the set_scale_mode tool.
type SetScaleModeOutput struct {
	Display int    `json:"display"`
	Mode    string `json:"mode"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes one connected display.
type MonitorInfo struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// DisplayInfo is one display's wallpaper state in get_status output.
type DisplayInfo struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	VideoPath string `json:"video_path,omitempty"`
	ScaleMode string `json:"scale_mode"`
	Playing   bool   `json:"playing"`
}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Paused             bool          `json:"paused"`
	PowerConnectedOnly bool          `json:"power_connected_only"`
	OnACPower          bool          `json:"on_ac_power"`
	Displays           []DisplayInfo `json:"displays"`
}

// PausePlaybackInput is the input for the pause_playback tool.
type PausePlaybackInput struct{}

// PausePlaybackOutput is the output for the pause_playback tool.
type PausePlaybackOutput struct {
	Paused bool `json:"paused"`
}

// ResumePlaybackInput is the input for the resume_playback tool.
type ResumePlaybackInput struct{}

// ResumePlaybackOutput is the output for the resume_playback tool.
type ResumePlaybackOutput struct {
	Paused bool `json:"paused"`
}

// SetPowerPolicyInput is the input for the set_power_policy tool.
type SetPowerPolicyInput struct {
	ConnectedOnly bool `json:"connected_only" jsonschema:"required,When true, wallpapers only play while on external power"`
}

// SetPowerPolicyOutput is the output for the set_power_policy tool.
type SetPowerPolicyOutput struct {
	ConnectedOnly bool `json:"connected_only"`
}

// RecentWallpapersInput is the input for the recent_wallpapers tool.
type RecentWallpapersInput struct{}

// RecentWallpapersOutput is the output for the recent_wallpapers tool.
type RecentWallpapersOutput struct {
	Paths []string `json:"paths"`
}
