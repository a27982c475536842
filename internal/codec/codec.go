// Package codec pre-checks whether a video file looks playable before it
// is handed to the surface manager. The manager itself trusts this gate
// and never re-validates.
package codec

import (
	"fmt"
	"os"
	"strings"
)

// AllowedExtensions lists the accepted container formats.
var AllowedExtensions = []string{".mp4", ".mov"}

// IsAllowedExtension reports whether path has an accepted video extension.
func IsAllowedExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// CheckPlayable returns whether the file at path appears playable, plus a
// human-readable reason when it does not. Playback errors past this gate
// degrade to a blank surface rather than an error.
func CheckPlayable(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "No file selected."
	}
	if !IsAllowedExtension(path) {
		return false, fmt.Sprintf("Unsupported format. Use %s (MPEG-4 or HEVC).",
			strings.Join(AllowedExtensions, ", "))
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, "File not found."
	}
	return true, ""
}
