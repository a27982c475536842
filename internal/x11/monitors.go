package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor represents a physical display
type Monitor struct {
	Index  int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Monitors retrieves all active monitors using XRandR, one entry per
// physical display. Mirrored outputs report the same geometry more than
// once; those are collapsed to the first occurrence, keeping report order.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	type rect struct {
		x, y, w, h int
	}
	seen := make(map[rect]bool)
	var monitors []Monitor

	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			// One bad CRTC must not abort enumeration of the rest.
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		key := rect{int(crtcInfo.X), int(crtcInfo.Y), int(crtcInfo.Width), int(crtcInfo.Height)}
		if seen[key] {
			// Mirrored/cloned display, same geometry: first occurrence wins.
			continue
		}
		seen[key] = true

		index := len(monitors)
		name := ""
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = strings.TrimSpace(string(outputInfo.Name))
		}
		if name == "" {
			name = DisplayName(index, int(crtcInfo.Width), int(crtcInfo.Height))
		}

		monitors = append(monitors, Monitor{
			Index:  index,
			Name:   name,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// DisplayName synthesizes a human-readable monitor name from its 1-based
// position and pixel size, used when the output reports no usable name.
func DisplayName(index, width, height int) string {
	return fmt.Sprintf("Monitor %d (%d×%d)", index+1, width, height)
}
