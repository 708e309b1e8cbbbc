package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/canary/internal/media"
	"github.com/backmassage/canary/internal/probe"
)

// FileRecord is the per-file view handed to reporters. Width and Height are
// nil when the media type has no dimensions or the prober did not report them.
type FileRecord struct {
	FolderName   string
	FileName     string // Without extension.
	Extension    string // Without leading dot.
	Size         int64
	LastModified time.Time // Zero when unknown.
	FullPath     string
	Width        *int
	Height       *int
}

// Keep reports whether a file with the given height passes a maxHeight
// limit. Unknown heights and a zero limit always pass; otherwise the height
// must be strictly below the limit.
func Keep(height *int, maxHeight int) bool {
	return height == nil || maxHeight == 0 || *height < maxHeight
}

// newRecord builds a FileRecord from a probe result. path is the enumerated
// path and is what FullPath (and therefore deletion) refers to.
func newRecord(path string, mt media.Type, res *probe.Result) FileRecord {
	rec := FileRecord{FullPath: path}

	g := res.General()
	if g == nil {
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		rec.FolderName = filepath.Dir(path)
		rec.FileName = strings.TrimSuffix(base, ext)
		rec.Extension = strings.TrimPrefix(ext, ".")
	} else {
		rec.FolderName = g.FolderName
		rec.FileName = g.FileName
		rec.Extension = g.Extension
		if g.Size != nil {
			rec.Size = *g.Size
		}
		if g.Modified != nil {
			rec.LastModified = *g.Modified
		}
	}

	if mt.HasDimensions() {
		if v := res.Visual(); v != nil {
			rec.Width = v.Width
			rec.Height = v.Height
		}
	}
	return rec
}
