// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for the metadata backends.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/canary/internal/config"
)

// Sentinel errors returned by CheckDeps when the selected backend's tool is missing.
var (
	ErrMediaInfoNotFound = errors.New("mediainfo not found on PATH")
	ErrFfprobeNotFound   = errors.New("ffprobe not found on PATH")
)

// versionTimeout bounds each version query in --check mode.
const versionTimeout = 5 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: it prints the availability and version of
// each external backend and which backend is selected. It is informational
// only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	if cfg.ConfigFile != "" {
		log.Info("Config file: %s", cfg.ConfigFile)
	}

	checkTool(log, "mediainfo", cfg.MediaInfoBin, "--Version")
	checkTool(log, "ffprobe", cfg.FfprobeBin, "-version")
	log.Success("native: built in (jpeg, png, bmp headers)")

	if err := CheckDeps(cfg); err != nil {
		log.Error("Selected backend %s is unusable: %v", cfg.Backend, err)
		return
	}
	log.Success("Selected backend: %s", cfg.Backend)
}

// checkTool verifies bin is on PATH and logs the first non-empty line of its
// version output.
func checkTool(log Logger, name, bin, versionFlag string) {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Warn("%s not found (%s)", name, bin)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, versionFlag).Output()
	if err != nil {
		log.Warn("%s found at %s but %s failed: %v", name, path, versionFlag, err)
		return
	}
	log.Success("%s: %s", name, firstLine(string(out)))
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return "(no version output)"
}

// CheckDeps is the pre-run validation: it verifies that the executable the
// selected backend shells out to can be found. The native backend needs
// nothing. Returns a sentinel error (wrapped with the binary name) on failure.
func CheckDeps(cfg *config.Config) error {
	bin := cfg.BackendBinary()
	if bin == "" {
		return nil
	}
	if _, err := exec.LookPath(bin); err != nil {
		switch cfg.Backend {
		case config.BackendFfprobe:
			return fmt.Errorf("%w (looked for %q)", ErrFfprobeNotFound, bin)
		default:
			return fmt.Errorf("%w (looked for %q)", ErrMediaInfoNotFound, bin)
		}
	}
	return nil
}
