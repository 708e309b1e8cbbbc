package display

import (
	"fmt"
	"strings"
)

// FormatBytes returns a human-readable size in decimal units (B, KB, MB, GB)
// with one digit after the point. Thresholds are 1e3, 1e6 and 1e9, each
// exclusive, so 999999 bytes renders as "1000.0 KB".
func FormatBytes(bytes int64) string {
	n := float64(bytes)
	switch {
	case bytes < 1e3:
		return fmt.Sprintf("%.1f B", n)
	case bytes < 1e6:
		return fmt.Sprintf("%.1f KB", n/1e3)
	case bytes < 1e9:
		return fmt.Sprintf("%.1f MB", n/1e6)
	default:
		return fmt.Sprintf("%.1f GB", n/1e9)
	}
}

// FormatPixels renders a pixel count such as "1080 px", or "N/A" when unknown.
func FormatPixels(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d px", *v)
}

// PadRight left-justifies s in a cell of exactly width runes, truncating
// anything that does not fit.
func PadRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// PadLeft right-justifies s in a cell of exactly width runes, truncating
// anything that does not fit.
func PadLeft(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return strings.Repeat(" ", width-len(r)) + s
}
