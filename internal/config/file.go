package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors canary.yaml. Every field is optional.
type fileConfig struct {
	Backend      string `yaml:"backend"`       // mediainfo | ffprobe | native
	Color        string `yaml:"color"`         // auto | always | never
	LogFile      string `yaml:"log_file"`      // append logs to this file
	Verbose      *bool  `yaml:"verbose"`       // per-file debug lines
	MediaInfoBin string `yaml:"mediainfo_bin"` // path to mediainfo
	FfprobeBin   string `yaml:"ffprobe_bin"`   // path to ffprobe
}

// DefaultConfigPath returns <UserConfigDir>/canary/canary.yaml, or "" when
// the user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "canary", "canary.yaml")
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is an
// error only when required is true.
func LoadFile(cfg *Config, path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Backend != "" {
		if err := (&backendValue{&cfg.Backend}).Set(fc.Backend); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if fc.Color != "" {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(fc.Color); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.MediaInfoBin != "" {
		cfg.MediaInfoBin = fc.MediaInfoBin
	}
	if fc.FfprobeBin != "" {
		cfg.FfprobeBin = fc.FfprobeBin
	}
	cfg.ConfigFile = path
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set keep their values; a missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CANARY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v, ok := lookupEnv("CANARY_BACKEND"); ok {
		if err := (&backendValue{&cfg.Backend}).Set(v); err != nil {
			return fmt.Errorf("CANARY_BACKEND: %w", err)
		}
	}
	if v, ok := lookupEnv("CANARY_COLOR"); ok {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(v); err != nil {
			return fmt.Errorf("CANARY_COLOR: %w", err)
		}
	}
	if v, ok := lookupEnv("CANARY_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookupEnv("CANARY_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CANARY_VERBOSE must be true or false (got %q)", v)
		}
		cfg.Verbose = b
	}
	if v, ok := lookupEnv("CANARY_MEDIAINFO_BIN"); ok {
		cfg.MediaInfoBin = v
	}
	if v, ok := lookupEnv("CANARY_FFPROBE_BIN"); ok {
		cfg.FfprobeBin = v
	}
	return nil
}

// lookupEnv treats set-but-blank variables as unset.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
