// Package power reports whether the machine runs on AC power, read from
// the kernel power-supply interface.
package power

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultSysDir = "/sys/class/power_supply"

// Source answers the on-AC-power question for the playback decision.
type Source struct {
	sysDir string
}

// NewSource creates a power source reading from the standard sysfs path.
func NewSource() *Source {
	return &Source{sysDir: defaultSysDir}
}

// NewSourceAt creates a power source reading from dir (used in tests).
func NewSourceAt(dir string) *Source {
	return &Source{sysDir: dir}
}

// OnACPower returns true when the system draws from mains power. On
// machines without a battery, or when detection fails, it returns true so
// wallpapers keep running.
func (s *Source) OnACPower() bool {
	entries, err := os.ReadDir(s.sysDir)
	if err != nil {
		return true
	}

	sawMains := false
	for _, entry := range entries {
		base := filepath.Join(s.sysDir, entry.Name())
		kind, err := os.ReadFile(filepath.Join(base, "type"))
		if err != nil || strings.TrimSpace(string(kind)) != "Mains" {
			continue
		}
		sawMains = true

		online, err := os.ReadFile(filepath.Join(base, "online"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(online)) == "1" {
			return true
		}
	}

	// No mains adapter found: desktop machine, always powered.
	return !sawMains
}
