package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
)

// Ffprobe runs a single ffprobe JSON call per file. ffprobe does not report
// modification dates, so Fs is always consulted for them.
type Ffprobe struct {
	Bin string // Executable; "ffprobe" when empty.
	Fs  afero.Fs
}

// Probe implements Prober.
func (f Ffprobe) Probe(ctx context.Context, path string) (*Result, error) {
	bin := f.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &Error{Backend: "ffprobe", Path: path, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}

	res, err := ParseFfprobeJSON(out)
	if err != nil {
		return nil, &Error{Backend: "ffprobe", Path: path, Err: err}
	}
	if err := completeGeneral(f.Fs, path, res.General()); err != nil {
		return nil, &Error{Backend: "ffprobe", Path: path, Err: err}
	}
	return res, nil
}

// completeGeneral names g after path when ffprobe omitted the filename, then
// fills the stat attributes. A size ffprobe did report is kept.
func completeGeneral(fsys afero.Fs, path string, g *Track) error {
	if g.CompleteName == "" {
		size := g.Size
		*g = generalFromPath(path)
		g.Size = size
	}
	if fsys == nil {
		return nil
	}
	return fillFromStat(fsys, path, g)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  *ffprobeFormat  `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Disposition map[string]int `json:"disposition"`
}

// ParseFfprobeJSON converts raw ffprobe JSON output into a Result. The
// format section becomes the General track; the first video stream that is
// not cover art becomes a Video track, or an Image track for still-image
// demuxers (image2, *_pipe).
func ParseFfprobeJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if raw.Format == nil {
		return nil, fmt.Errorf("%w: ffprobe returned no format", ErrUnreadable)
	}

	res := &Result{}
	var g Track
	if raw.Format.Filename != "" {
		g = generalFromPath(raw.Format.Filename)
	} else {
		g = Track{Type: TrackGeneral}
	}
	g.Size = optInt64(raw.Format.Size)
	res.Tracks = append(res.Tracks, g)

	still := isStillImageFormat(raw.Format.FormatName)
	haveVisual := false
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if haveVisual || s.Disposition["attached_pic"] == 1 {
				continue
			}
			tt := TrackVideo
			if still {
				tt = TrackImage
			}
			res.Tracks = append(res.Tracks, Track{Type: tt, Width: positive(s.Width), Height: positive(s.Height)})
			haveVisual = true
		case "audio":
			res.Tracks = append(res.Tracks, Track{Type: TrackAudio})
		case "subtitle":
			res.Tracks = append(res.Tracks, Track{Type: TrackText})
		default:
			res.Tracks = append(res.Tracks, Track{Type: TrackOther})
		}
	}
	return res, nil
}

func isStillImageFormat(name string) bool {
	for _, part := range strings.Split(name, ",") {
		if part == "image2" || strings.HasSuffix(part, "_pipe") {
			return true
		}
	}
	return false
}
