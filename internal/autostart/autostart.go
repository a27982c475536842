// Package autostart manages the XDG autostart entry that launches the
// daemon on login.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const desktopFileName = "livewalli.desktop"

const desktopEntry = `[Desktop Entry]
Type=Application
Name=LiveWalli
Comment=Live video wallpaper engine
Exec=%s daemon
X-GNOME-Autostart-enabled=true
`

// entryPath resolves the XDG autostart desktop file location.
func entryPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "autostart", desktopFileName), nil
}

// Enable writes the autostart entry pointing at the given executable.
func Enable(execPath string) error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	content := fmt.Sprintf(desktopEntry, execPath)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// Disable removes the autostart entry. Not being enabled is not an error.
func Disable() error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	return nil
}

// Enabled reports whether the autostart entry exists.
func Enabled() (bool, error) {
	path, err := entryPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
