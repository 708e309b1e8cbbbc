package probe

import (
	"fmt"

	"github.com/spf13/afero"
)

// New returns the Prober for a backend name. bin is the executable for the
// mediainfo and ffprobe backends and is ignored by native.
func New(backend, bin string, fsys afero.Fs) (Prober, error) {
	switch backend {
	case "mediainfo":
		return MediaInfo{Bin: bin, Fs: fsys}, nil
	case "ffprobe":
		return Ffprobe{Bin: bin, Fs: fsys}, nil
	case "native":
		return Native{Fs: fsys}, nil
	default:
		return nil, fmt.Errorf("unknown metadata backend %q", backend)
	}
}
