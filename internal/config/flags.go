package config

// This file implements CLI flag parsing and help text.
// Precedence is defaults < config file < .env/environment < explicit flags, so
// flags are parsed into a side struct and only the ones the user actually
// passed are copied onto Config.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/backmassage/canary/internal/media"
)

var (
	// ErrHelp is returned when -h/--help was requested.
	ErrHelp = errors.New("help requested")
	// ErrVersion is returned when -V/--version was requested.
	ErrVersion = errors.New("version requested")
	// ErrUsage marks malformed positional arguments.
	ErrUsage = errors.New("need <list|table|delete> <rootPath> <video|image|text> [maxPixelHeight]")
)

// flagValues captures raw flag values before precedence is applied.
type flagValues struct {
	backend      Backend
	configFile   string
	logFile      string
	mediaInfoBin string
	ffprobeBin   string
	verbose      bool
	forceColor   bool
	noColor      bool
	checkOnly    bool
	showVersion  bool
	showHelp     bool
}

// ParseFlags parses args (without the program name) into cfg. It loads the
// config file, ./.env and CANARY_* variables along the way. ErrHelp and
// ErrVersion are returned instead of exiting so the caller owns the process.
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("canary", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var f flagValues
	defineFlags(fs, &f)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}
	if f.showHelp {
		return ErrHelp
	}
	if f.showVersion {
		return ErrVersion
	}

	if err := LoadDotEnv(".env"); err != nil {
		return err
	}

	path, required := f.configFile, f.configFile != ""
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CANARY_CONFIG"))
		required = path != ""
	}
	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		if err := LoadFile(cfg, path, required); err != nil {
			return err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return err
	}

	applyExplicitFlags(fs, cfg, &f)

	return parsePositionalArgs(fs.Args(), cfg)
}

// defineFlags registers every option; short forms share the long form's target.
func defineFlags(fs *flag.FlagSet, f *flagValues) {
	fs.Var(&backendValue{&f.backend}, "backend", "Metadata backend: mediainfo | ffprobe | native")
	fs.Var(&backendValue{&f.backend}, "b", "Same as --backend")
	fs.StringVar(&f.configFile, "config", "", "Read settings from this YAML file")
	fs.StringVar(&f.mediaInfoBin, "mediainfo", "", "Path to the mediainfo executable")
	fs.StringVar(&f.ffprobeBin, "ffprobe", "", "Path to the ffprobe executable")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&f.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&f.verbose, "v", false, "Same as --verbose")
	fs.StringVar(&f.logFile, "log", "", "Append logs to file")
	fs.StringVar(&f.logFile, "l", "", "Same as --log")
	fs.BoolVar(&f.checkOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&f.checkOnly, "c", false, "Same as --check")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&f.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&f.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&f.showHelp, "h", false, "Same as --help")
}

// applyExplicitFlags copies the flags that appeared on the command line.
func applyExplicitFlags(fs *flag.FlagSet, cfg *Config, f *flagValues) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend", "b":
			cfg.Backend = f.backend
		case "mediainfo":
			cfg.MediaInfoBin = f.mediaInfoBin
		case "ffprobe":
			cfg.FfprobeBin = f.ffprobeBin
		case "verbose", "v":
			cfg.Verbose = f.verbose
		case "log", "l":
			cfg.LogFile = f.logFile
		case "check", "c":
			cfg.CheckOnly = f.checkOnly
		}
	})
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs reads <outputType> <rootPath> <mediaType> [maxPixelHeight].
func parsePositionalArgs(args []string, cfg *Config) error {
	if cfg.CheckOnly {
		return nil
	}
	if len(args) < 3 || len(args) > 4 {
		return ErrUsage
	}

	ot, err := ParseOutputType(args[0])
	if err != nil {
		return err
	}
	cfg.OutputType = ot
	cfg.RootPath = NormalizeDirArg(args[1])

	mt, err := media.ParseType(args[2])
	if err != nil {
		return err
	}
	cfg.MediaType = mt

	cfg.MaxPixelHeight = 0
	if len(args) == 4 {
		n, err := strconv.Atoi(strings.TrimSpace(args[3]))
		if err != nil {
			return fmt.Errorf("max pixel height must be a whole number (got %q)", args[3])
		}
		switch {
		case !mt.HasDimensions():
			cfg.HeightIgnored = true
		case n <= 0:
			return fmt.Errorf("max pixel height must be greater than zero for %s files (got %d)", mt, n)
		default:
			cfg.MaxPixelHeight = n
		}
	}
	return nil
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer, version string) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "canary v" + version + " - find, list or delete media files by pixel height"},
		{"", ""},
		{"  canary [OPTIONS] <action> <path> <media> [max_pixel_height]", ""},
		{"", ""},
		{"Arguments", ""},
		{"  action", "list | table | delete"},
		{"  path", "Existing directory, scanned recursively"},
		{"  media", "video | image | text"},
		{"  max_pixel_height", "Keep files shorter than this (video/image only; default: no limit)"},
		{"", ""},
		{"Metadata", ""},
		{"  -b, --backend <name>", "mediainfo | ffprobe | native (default: mediainfo)"},
		{"  --mediainfo <path>", "mediainfo executable (default: mediainfo)"},
		{"  --ffprobe <path>", "ffprobe executable (default: ffprobe)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "YAML settings file (default: <config dir>/canary/canary.yaml)"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (mediainfo, ffprobe)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"", `ex: canary table "/run/media/My Movies" video 420`},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so enum types work with flag.Var and the config file.

type backendValue struct{ p *Backend }

func (b *backendValue) String() string {
	if b.p == nil {
		return ""
	}
	return string(*b.p)
}

func (b *backendValue) Set(s string) error {
	v := Backend(strings.ToLower(strings.TrimSpace(s)))
	if err := validateBackend(v); err != nil {
		return err
	}
	*b.p = v
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch v := ColorMode(strings.ToLower(strings.TrimSpace(s))); v {
	case ColorAuto, ColorAlways, ColorNever:
		*c.p = v
		return nil
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}
