package probe

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// generalFromPath derives the naming attributes of a General track from path.
func generalFromPath(path string) Track {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return Track{
		Type:         TrackGeneral,
		FolderName:   filepath.Dir(path),
		FileName:     strings.TrimSuffix(base, ext),
		Extension:    strings.TrimPrefix(ext, "."),
		CompleteName: path,
	}
}

// fillFromStat completes Size and Modified on a General track from the
// filesystem when the backend did not report them.
func fillFromStat(fsys afero.Fs, path string, t *Track) error {
	if t.Size != nil && t.Modified != nil {
		return nil
	}
	fi, err := fsys.Stat(path)
	if err != nil {
		return err
	}
	if t.Size == nil {
		size := fi.Size()
		t.Size = &size
	}
	if t.Modified == nil {
		mod := fi.ModTime().UTC().Truncate(1e9)
		t.Modified = &mod
	}
	return nil
}

// --- Numeric parsing helpers (both CLIs report numbers as strings) ---

// optInt64 returns nil for an empty or malformed value.
func optInt64(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// optInt returns nil for an empty, malformed or non-positive value.
func optInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
