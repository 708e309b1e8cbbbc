// Package term decides whether canary's log lines on stderr are colored.
//
// Reports on stdout are never colored, so only the logger and the --check
// banner read these values. After [Configure] picks a mode, each color is
// either an ANSI escape or "".
package term

import (
	"os"
	"strings"

	"github.com/backmassage/canary/internal/config"
)

// Escapes used by log levels and the banner.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = ""
)

// Configure sets the escapes for logs written to stream (stderr in the CLI).
// --color and --no-color map to ColorAlways and ColorNever; otherwise stream
// must be a terminal.
func Configure(mode config.ColorMode, stream *os.File) {
	on := mode == config.ColorAlways ||
		(mode == config.ColorAuto && IsTerminal(stream) && wantsColor())
	if !on {
		Red, Green, Yellow, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", ""
		return
	}
	Red, Green, Yellow = "\033[1;91m", "\033[1;92m", "\033[1;93m"
	Blue, Cyan, Magenta = "\033[1;94m", "\033[1;96m", "\033[1;95m"
	NC = "\033[0m"
}

// Enabled reports whether log lines currently carry escapes.
func Enabled() bool { return NC != "" }

// wantsColor honors NO_COLOR and TERM=dumb in auto mode.
func wantsColor() bool {
	return os.Getenv("NO_COLOR") == "" && strings.ToLower(os.Getenv("TERM")) != "dumb"
}

// IsTerminal reports whether f is a character device. A nil f is not.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
