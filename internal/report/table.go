package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/canary/internal/display"
	"github.com/backmassage/canary/internal/media"
	"github.com/backmassage/canary/internal/pipeline"
)

// Column widths. Rows lay the name and extension out as 60+9 so a leading
// space on each lines up under the 62+7 header cells.
const (
	colNum       = 5
	colFolder    = 30
	colNameHead  = 62
	colExtHead   = 7
	colName      = 60
	colExt       = 9
	colDate      = 13
	colSize      = 10
	colWidth     = 10
	colHeight    = 8
	dateLayout   = "01/02/2006"
	missingValue = "N/A"
)

// Table prints a fixed-width header followed by one row per passing file.
// Width and Height columns appear for media types with dimensions.
type Table struct {
	Out       io.Writer
	MediaType media.Type
	Root      string

	count int
}

func (t *Table) Begin() {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(display.PadRight(" Num", colNum))
	b.WriteString(display.PadRight("Containing Folder Name", colFolder))
	b.WriteString(display.PadRight(" File Name", colNameHead))
	b.WriteString(display.PadRight("Ext.", colExtHead))
	b.WriteString(display.PadRight("Mod. Date", colDate))
	b.WriteString(display.PadLeft("Size", colSize))
	if t.MediaType.HasDimensions() {
		b.WriteString(display.PadRight(" Width", colWidth))
		b.WriteString(display.PadRight("Height", colHeight))
	}
	fmt.Fprintln(t.Out, strings.TrimRight(b.String(), " "))
}

func (t *Table) Emit(rec pipeline.FileRecord) error {
	t.count++
	_, err := fmt.Fprintln(t.Out, t.row(t.count, rec))
	return err
}

func (t *Table) row(n int, rec pipeline.FileRecord) string {
	var b strings.Builder
	b.WriteString(display.PadRight(strconv.Itoa(n), colNum))
	b.WriteString(display.PadRight(folderLabel(rec.FolderName), colFolder))
	b.WriteString(display.PadRight(" "+rec.FileName, colName))
	b.WriteString(display.PadRight("  "+rec.Extension, colExt))
	b.WriteString(display.PadRight(dateLabel(rec), colDate))
	b.WriteString(display.PadLeft(display.FormatBytes(rec.Size), colSize))
	if t.MediaType.HasDimensions() {
		b.WriteString(display.PadRight(" "+display.FormatPixels(rec.Width), colWidth))
		b.WriteString(display.PadRight(display.FormatPixels(rec.Height), colHeight))
	}
	return strings.TrimRight(b.String(), " ")
}

func (t *Table) Summary(res pipeline.RunResult) {
	writeSummary(t.Out, t.Root, res, false)
}

// folderLabel renders the containing folder as "./<last element>".
func folderLabel(folder string) string {
	if folder == "" {
		return missingValue
	}
	return "./" + filepath.Base(folder)
}

func dateLabel(rec pipeline.FileRecord) string {
	if rec.LastModified.IsZero() {
		return missingValue
	}
	return rec.LastModified.Format(dateLayout)
}
