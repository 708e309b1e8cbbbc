package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/backmassage/canary/internal/pipeline"
)

// ErrAborted is returned by Confirm when the operator does not type yes.
var ErrAborted = errors.New("deletion aborted, no files were removed")

// Confirm asks once whether every matching file under root may be deleted.
// Only "yes" or "Yes" (surrounding whitespace ignored) confirms; any other
// answer, including end of input, returns ErrAborted.
func Confirm(in io.Reader, out io.Writer, root string) error {
	fmt.Fprintf(out, "Every matching file under %q will be permanently deleted.\n", root)
	fmt.Fprint(out, "Type yes to continue: ")

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		fmt.Fprintln(out)
		if err := sc.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrAborted, err)
		}
		return ErrAborted
	}
	switch strings.TrimSpace(sc.Text()) {
	case "yes", "Yes":
		return nil
	default:
		return ErrAborted
	}
}

// Delete removes each passing file. Call Confirm before running with it.
type Delete struct {
	Out  io.Writer
	Fs   afero.Fs
	Root string
}

func (d *Delete) Begin() {}

func (d *Delete) Emit(rec pipeline.FileRecord) error {
	if err := d.Fs.Remove(rec.FullPath); err != nil {
		return fmt.Errorf("%s could not be deleted: %w", rec.FullPath, err)
	}
	return nil
}

func (d *Delete) Summary(res pipeline.RunResult) {
	writeSummary(d.Out, d.Root, res, true)
}
