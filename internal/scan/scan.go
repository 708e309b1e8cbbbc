// Package scan enumerates candidate files beneath a root directory.
package scan

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// errStop unwinds afero.Walk when the consumer stops ranging.
var errStop = errors.New("scan: stopped")

// CheckRoot returns an error unless root is an existing, readable directory.
func CheckRoot(fsys afero.Fs, root string) error {
	fi, err := fsys.Stat(root)
	if err != nil {
		return fmt.Errorf("path %q is not valid: %w", root, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("path %q is not a directory", root)
	}
	f, err := fsys.Open(root)
	if err != nil {
		return fmt.Errorf("path %q is not readable: %w", root, err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("path %q is not readable: %w", root, err)
	}
	return nil
}

// Enumerate walks root recursively and yields the path of every regular file
// whose lowercase extension is in exts. Directories are visited in lexical
// order. Symlinks to regular files count as files; symlinked directories are
// not descended into. An entry below root that cannot be read is yielded as
// ("", *WalkError) and the walk continues with its siblings. Enumerate itself
// fails fast when root is not a readable directory.
func Enumerate(fsys afero.Fs, root string, exts map[string]bool) (iter.Seq2[string, error], error) {
	if err := CheckRoot(fsys, root); err != nil {
		return nil, err
	}
	seq := func(yield func(string, error) bool) {
		emit := func(path string, err error) error {
			if !yield(path, err) {
				return errStop
			}
			return nil
		}
		err := afero.Walk(fsys, root, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return emit("", &WalkError{Path: path, Err: walkErr})
			}
			if info.IsDir() || !exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if info.Mode()&os.ModeSymlink != 0 {
				target, err := fsys.Stat(path)
				if err != nil {
					return emit("", &WalkError{Path: path, Err: err})
				}
				info = target
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			return emit(path, nil)
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", err)
		}
	}
	return seq, nil
}

// WalkError attributes a traversal failure to the entry that caused it.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("%s could not be scanned: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error { return e.Err }
