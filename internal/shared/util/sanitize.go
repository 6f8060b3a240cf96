package util

import (
	"path"
	"strings"
)

const fallbackFileName = "upload.pdf"

// SanitizeFileName reduces a client-supplied name to a single safe path segment.
// Separators become underscores, traversal sequences are removed, and an empty
// result falls back to "upload.pdf".
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == ':':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	s = strings.Trim(s, ". ")
	if s == "" {
		return fallbackFileName
	}
	return s
}
