// Package config holds runtime configuration: defaults, the optional YAML
// config file, environment overrides, CLI flag parsing and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/canary/internal/media"
)

// --- Enum types for validated string fields ---

// OutputType selects what happens to files that pass the filter.
type OutputType string

const (
	OutputList   OutputType = "list"   // Print full paths only.
	OutputTable  OutputType = "table"  // Fixed-width table plus summary.
	OutputDelete OutputType = "delete" // Remove files after confirmation.
)

// Backend selects the metadata prober.
type Backend string

const (
	BackendMediaInfo Backend = "mediainfo" // mediainfo --Output=JSON (default).
	BackendFfprobe   Backend = "ffprobe"   // ffprobe -print_format json.
	BackendNative    Backend = "native"    // Pure Go: stat plus image headers.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when the log stream is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It starts from [DefaultConfig], is
// overlaid by the config file and environment, and finally by [ParseFlags].
type Config struct {
	// Positional arguments.
	OutputType     OutputType
	RootPath       string
	MediaType      media.Type
	MaxPixelHeight int  // 0 means no limit.
	HeightIgnored  bool // A height was given for a media type without dimensions.

	// Metadata backend.
	Backend      Backend
	MediaInfoBin string // Default: "mediainfo".
	FfprobeBin   string // Default: "ffprobe".

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode
	LogFile    string // Optional log file path.
	CheckOnly  bool   // Run --check diagnostics and exit.
	ConfigFile string // Config file that was actually loaded, if any.
}

// DefaultConfig returns the built-in defaults used before any file,
// environment or flag overrides.
func DefaultConfig() Config {
	return Config{
		Backend:      BackendMediaInfo,
		MediaInfoBin: "mediainfo",
		FfprobeBin:   "ffprobe",
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and, unless CheckOnly is set, the positional
// argument rules.
func (c *Config) Validate() error {
	if err := validateBackend(c.Backend); err != nil {
		return err
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.CheckOnly {
		return nil
	}

	switch c.OutputType {
	case OutputList, OutputTable, OutputDelete:
		// valid
	default:
		return errors.New("file action type must be one of: list, table, delete")
	}
	if c.RootPath == "" {
		return errors.New("root path must not be empty")
	}
	if _, err := media.ParseType(string(c.MediaType)); err != nil {
		return err
	}
	if c.MaxPixelHeight < 0 {
		return errors.New("max pixel height must not be negative")
	}
	if !c.MediaType.HasDimensions() && c.MaxPixelHeight != 0 {
		return fmt.Errorf("max pixel height does not apply to %s files", c.MediaType)
	}
	return nil
}

func validateBackend(b Backend) error {
	switch b {
	case BackendMediaInfo, BackendFfprobe, BackendNative:
		return nil
	default:
		return fmt.Errorf("invalid backend %q (use 'mediainfo', 'ffprobe' or 'native')", b)
	}
}

// ParseOutputType converts a command-line value into an OutputType.
func ParseOutputType(s string) (OutputType, error) {
	switch o := OutputType(strings.ToLower(strings.TrimSpace(s))); o {
	case OutputList, OutputTable, OutputDelete:
		return o, nil
	default:
		return "", fmt.Errorf("file action type must be one of: list, table, delete (got %q)", s)
	}
}

// BackendBinary returns the executable the configured backend shells out to,
// or "" for the native backend.
func (c *Config) BackendBinary() string {
	switch c.Backend {
	case BackendMediaInfo:
		return c.MediaInfoBin
	case BackendFfprobe:
		return c.FfprobeBin
	default:
		return ""
	}
}
