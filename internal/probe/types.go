package probe

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TrackType tags a Track with the kind of stream it describes.
type TrackType string

const (
	TrackGeneral TrackType = "General"
	TrackVideo   TrackType = "Video"
	TrackImage   TrackType = "Image"
	TrackAudio   TrackType = "Audio"
	TrackText    TrackType = "Text"
	TrackOther   TrackType = "Other"
)

// ModifiedLayout is the timestamp layout of General track modification dates.
const ModifiedLayout = "UTC 2006-01-02 15:04:05"

// Track is one typed metadata record. General attributes are set on the
// General track; Width and Height on Video/Image tracks. A nil pointer means
// the backend did not report the attribute.
type Track struct {
	Type TrackType

	FolderName   string
	FileName     string // Without extension.
	Extension    string // Without leading dot.
	CompleteName string
	Size         *int64
	Modified     *time.Time

	Width  *int
	Height *int
}

// Result is everything a backend reported for one file.
type Result struct {
	Tracks []Track
}

// General returns the General track, or nil when there is none.
func (r *Result) General() *Track {
	return r.first(TrackGeneral)
}

// Visual returns the first Video or Image track, or nil.
func (r *Result) Visual() *Track {
	for i := range r.Tracks {
		if t := r.Tracks[i].Type; t == TrackVideo || t == TrackImage {
			return &r.Tracks[i]
		}
	}
	return nil
}

func (r *Result) first(tt TrackType) *Track {
	for i := range r.Tracks {
		if r.Tracks[i].Type == tt {
			return &r.Tracks[i]
		}
	}
	return nil
}

// Prober extracts metadata for a single file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}

// ErrUnreadable is wrapped by errors for files a backend ran against but
// could not describe.
var ErrUnreadable = errors.New("metadata could not be read")

// Error attributes a probe failure to a backend and file.
type Error struct {
	Backend string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s caused an error with %s: %v", e.Path, e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ParseModified parses a General track modification date such as
// "UTC 2021-06-01 12:30:45".
func ParseModified(s string) (time.Time, error) {
	t, err := time.Parse(ModifiedLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("modification date %q: %w", s, err)
	}
	return t, nil
}
