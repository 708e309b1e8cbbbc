package probe

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register decoders for the image media type.
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
)

// imageExts are the extensions Native decodes headers for.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// Native needs no external tools: it stats the file for the General track
// and reads image headers for dimensions. It reports no dimensions for
// video, so a height limit never excludes videos under this backend.
type Native struct {
	Fs afero.Fs
}

// Probe implements Prober.
func (n Native) Probe(_ context.Context, path string) (*Result, error) {
	fsys := n.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	g := generalFromPath(path)
	if err := fillFromStat(fsys, path, &g); err != nil {
		return nil, &Error{Backend: "native", Path: path, Err: err}
	}
	res := &Result{Tracks: []Track{g}}

	if !imageExts[strings.ToLower(filepath.Ext(path))] {
		return res, nil
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, &Error{Backend: "native", Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			err = fmt.Errorf("%w: unrecognized image format", ErrUnreadable)
		} else {
			err = fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return nil, &Error{Backend: "native", Path: path, Err: err}
	}
	res.Tracks = append(res.Tracks, Track{Type: TrackImage, Width: positive(cfg.Width), Height: positive(cfg.Height)})
	return res, nil
}
