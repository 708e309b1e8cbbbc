package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/spf13/afero"
)

// MediaInfo runs `mediainfo --Output=JSON` against each file.
type MediaInfo struct {
	Bin string   // Executable; "mediainfo" when empty.
	Fs  afero.Fs // Used to fill attributes mediainfo leaves out.
}

// Probe implements Prober.
func (m MediaInfo) Probe(ctx context.Context, path string) (*Result, error) {
	bin := m.Bin
	if bin == "" {
		bin = "mediainfo"
	}
	out, err := exec.CommandContext(ctx, bin, "--Output=JSON", path).Output()
	if err != nil {
		return nil, &Error{Backend: "mediainfo", Path: path, Err: err}
	}

	res, err := ParseMediaInfoJSON(out)
	if err != nil {
		return nil, &Error{Backend: "mediainfo", Path: path, Err: err}
	}
	if m.Fs != nil {
		if err := fillFromStat(m.Fs, path, res.General()); err != nil {
			return nil, &Error{Backend: "mediainfo", Path: path, Err: err}
		}
	}
	return res, nil
}

// --- mediainfo JSON wire types ---

type mediaInfoOutput struct {
	Media *struct {
		Ref    string           `json:"@ref"`
		Tracks []mediaInfoTrack `json:"track"`
	} `json:"media"`
}

type mediaInfoTrack struct {
	Type             string `json:"@type"`
	FolderName       string `json:"FolderName"`
	FileName         string `json:"FileName"`
	FileExtension    string `json:"FileExtension"`
	CompleteName     string `json:"CompleteName"`
	FileSize         string `json:"FileSize"`
	FileModifiedDate string `json:"File_Modified_Date"`
	Width            string `json:"Width"`
	Height           string `json:"Height"`
}

// ParseMediaInfoJSON converts raw mediainfo JSON output into a Result.
// Output without a General track (mediainfo's answer for files it cannot
// open) is reported as ErrUnreadable.
func ParseMediaInfoJSON(data []byte) (*Result, error) {
	var raw mediaInfoOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mediainfo JSON: %w", err)
	}
	if raw.Media == nil {
		return nil, fmt.Errorf("%w: mediainfo returned no media", ErrUnreadable)
	}

	res := &Result{}
	for i := range raw.Media.Tracks {
		res.Tracks = append(res.Tracks, convertMediaInfoTrack(raw.Media.Ref, &raw.Media.Tracks[i]))
	}
	if res.General() == nil {
		return nil, fmt.Errorf("%w: no General track", ErrUnreadable)
	}
	return res, nil
}

func convertMediaInfoTrack(ref string, mt *mediaInfoTrack) Track {
	switch TrackType(mt.Type) {
	case TrackGeneral:
		t := generalFromPath(ref)
		if mt.CompleteName != "" {
			t = generalFromPath(mt.CompleteName)
		}
		if mt.FolderName != "" {
			t.FolderName = mt.FolderName
		}
		if mt.FileName != "" {
			t.FileName = mt.FileName
		}
		if mt.FileExtension != "" {
			t.Extension = mt.FileExtension
		}
		t.Size = optInt64(mt.FileSize)
		// An unparseable date is left unknown like any other missing attribute.
		if mod, err := ParseModified(mt.FileModifiedDate); err == nil {
			t.Modified = &mod
		}
		return t
	case TrackVideo, TrackImage:
		return Track{
			Type:   TrackType(mt.Type),
			Width:  optInt(mt.Width),
			Height: optInt(mt.Height),
		}
	case TrackAudio, TrackText:
		return Track{Type: TrackType(mt.Type)}
	default:
		return Track{Type: TrackOther}
	}
}
