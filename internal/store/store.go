// Package store persists per-display wallpaper state as a small keyed JSON
// file: display indexes map to video paths, plus scale modes, the
// AC-power-only flag and the recently used paths list. The file on disk is
// the source of truth; every accessor reads it fresh and every mutation
// writes it back.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRecentMax bounds the recent-paths list.
const DefaultRecentMax = 10

// DefaultPath returns the standard wallpaper store location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "livewalli", "wallpapers.json"), nil
}

// Store reads and writes the wallpaper state file.
type Store struct {
	path      string
	recentMax int
}

// New creates a store backed by the given file path.
func New(path string, recentMax int) *Store {
	if recentMax <= 0 {
		recentMax = DefaultRecentMax
	}
	return &Store{path: path, recentMax: recentMax}
}

// NewDefault creates a store at the standard location.
func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return New(path, DefaultRecentMax), nil
}

// contents is the decoded state file. Display paths sit at the JSON top
// level keyed by the decimal display index, next to the named keys.
type contents struct {
	paths              map[int]string
	scaleModes         map[int]string
	powerConnectedOnly bool
	recentPaths        []string
}

func emptyContents() contents {
	return contents{
		paths:      make(map[int]string),
		scaleModes: make(map[int]string),
	}
}

// load reads and parses the state file. A missing or unparsable file yields
// empty contents, never an error.
func (s *Store) load() contents {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return emptyContents()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return emptyContents()
	}

	c := emptyContents()
	for key, val := range raw {
		switch key {
		case "scale_modes":
			var modes map[string]string
			if err := json.Unmarshal(val, &modes); err == nil {
				for k, v := range modes {
					if idx, err := strconv.Atoi(k); err == nil {
						c.scaleModes[idx] = v
					}
				}
			}
		case "power_connected_only":
			_ = json.Unmarshal(val, &c.powerConnectedOnly)
		case "recent_paths":
			_ = json.Unmarshal(val, &c.recentPaths)
		default:
			idx, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			var path string
			if err := json.Unmarshal(val, &path); err == nil && path != "" {
				c.paths[idx] = path
			}
		}
	}
	return c
}

func (s *Store) save(c contents) error {
	out := make(map[string]any, len(c.paths)+3)
	for idx, path := range c.paths {
		out[strconv.Itoa(idx)] = path
	}
	modes := make(map[string]string, len(c.scaleModes))
	for idx, mode := range c.scaleModes {
		modes[strconv.Itoa(idx)] = mode
	}
	out["scale_modes"] = modes
	if c.powerConnectedOnly {
		out["power_connected_only"] = true
	}
	if len(c.recentPaths) > 0 {
		out["recent_paths"] = c.recentPaths
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallpaper store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write wallpaper store: %w", err)
	}
	return nil
}

// PathForDisplay returns the saved video path for a display index.
func (s *Store) PathForDisplay(index int) (string, bool) {
	path, ok := s.load().paths[index]
	return path, ok
}

// SetPathForDisplay saves the video path for a display index; an empty
// path removes the entry.
func (s *Store) SetPathForDisplay(index int, path string) error {
	c := s.load()
	if path == "" {
		delete(c.paths, index)
	} else {
		c.paths[index] = path
	}
	return s.save(c)
}

// ScaleMode returns the saved scale mode for a display index, "fill" when unset.
func (s *Store) ScaleMode(index int) string {
	if mode, ok := s.load().scaleModes[index]; ok && mode != "" {
		return mode
	}
	return "fill"
}

// SetScaleMode saves the scale mode for a display index.
func (s *Store) SetScaleMode(index int, mode string) error {
	c := s.load()
	c.scaleModes[index] = mode
	return s.save(c)
}

// PowerConnectedOnly reports whether playback is restricted to AC power.
func (s *Store) PowerConnectedOnly() bool {
	return s.load().powerConnectedOnly
}

// SetPowerConnectedOnly sets the AC-power-only restriction.
func (s *Store) SetPowerConnectedOnly(enabled bool) error {
	c := s.load()
	c.powerConnectedOnly = enabled
	return s.save(c)
}

// RecentPaths returns the recently used video paths, newest first.
func (s *Store) RecentPaths() []string {
	recent := s.load().recentPaths
	if len(recent) > s.recentMax {
		recent = recent[:s.recentMax]
	}
	return recent
}

// AddRecentPath prepends path to the recent list, deduplicating by
// normalized path and trimming to the configured cap.
func (s *Store) AddRecentPath(path string) error {
	if path == "" {
		return nil
	}
	norm := filepath.Clean(path)

	c := s.load()
	recent := make([]string, 0, len(c.recentPaths)+1)
	recent = append(recent, norm)
	for _, p := range c.recentPaths {
		if filepath.Clean(p) != norm {
			recent = append(recent, p)
		}
	}
	if len(recent) > s.recentMax {
		recent = recent[:s.recentMax]
	}
	c.recentPaths = recent
	return s.save(c)
}

// RemoveRecentPath removes path from the recent list.
func (s *Store) RemoveRecentPath(path string) error {
	if path == "" {
		return nil
	}
	norm := filepath.Clean(path)

	c := s.load()
	recent := c.recentPaths[:0]
	for _, p := range c.recentPaths {
		if filepath.Clean(p) != norm {
			recent = append(recent, p)
		}
	}
	c.recentPaths = recent
	return s.save(c)
}
