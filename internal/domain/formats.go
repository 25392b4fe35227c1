package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultFormats are the extensions accepted when nothing is configured.
var DefaultFormats = []string{".jpg", ".jpeg"}

// FormatSet is a set of lowercase file extensions including the leading dot.
type FormatSet map[string]struct{}

func NewFormatSet(exts ...string) FormatSet {
	set := make(FormatSet, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// Supports reports whether path's extension is in the set, ignoring case.
func (s FormatSet) Supports(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// List returns the extensions in sorted order.
func (s FormatSet) List() []string {
	exts := make([]string, 0, len(s))
	for ext := range s {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
