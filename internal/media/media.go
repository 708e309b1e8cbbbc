// Package media classifies the kinds of files canary scans and the file
// extensions that belong to each kind.
package media

import (
	"fmt"
	"strings"
)

// Type selects which files are scanned and whether pixel dimensions apply.
type Type string

const (
	Video Type = "video"
	Image Type = "image"
	Text  Type = "text"
)

var extensions = map[Type][]string{
	Video: {".mp4", ".avi", ".webm", ".mkv", ".mov", ".wmv", ".mpg"},
	Image: {".jpg", ".png", ".bmp"},
	Text:  {".txt", ".xml", ".htm", ".html"},
}

// ParseType converts a command-line value into a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Video, Image, Text:
		return t, nil
	default:
		return "", fmt.Errorf("invalid media type %q (use 'video', 'image' or 'text')", s)
	}
}

// HasDimensions reports whether files of this type carry a width and height.
func (t Type) HasDimensions() bool {
	return t == Video || t == Image
}

// ExtensionsFor returns the set of lowercase extensions (with leading dot)
// recognized for t. The returned map is a fresh copy. An unknown type is a
// programming error; callers validate with ParseType first.
func ExtensionsFor(t Type) map[string]bool {
	list, ok := extensions[t]
	if !ok {
		panic(fmt.Sprintf("media: no extensions registered for type %q", string(t)))
	}
	set := make(map[string]bool, len(list))
	for _, ext := range list {
		set[ext] = true
	}
	return set
}
