// Package report renders passing files for each output type (list, table,
// delete) and prints the run summary.
package report

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/backmassage/canary/internal/config"
	"github.com/backmassage/canary/internal/media"
	"github.com/backmassage/canary/internal/pipeline"
)

// Options selects and configures a reporter.
type Options struct {
	Output    config.OutputType
	Out       io.Writer
	Fs        afero.Fs // Delete only.
	MediaType media.Type
	Root      string
}

// New returns the reporter for opts.Output.
func New(opts Options) (pipeline.Reporter, error) {
	switch opts.Output {
	case config.OutputList:
		return &List{Out: opts.Out}, nil
	case config.OutputTable:
		return &Table{Out: opts.Out, MediaType: opts.MediaType, Root: opts.Root}, nil
	case config.OutputDelete:
		if opts.Fs == nil {
			return nil, fmt.Errorf("delete reporter needs a filesystem")
		}
		return &Delete{Out: opts.Out, Fs: opts.Fs, Root: opts.Root}, nil
	default:
		return nil, fmt.Errorf("unknown output type %q", opts.Output)
	}
}

// List prints the full path of each passing file, one per line, with no
// header or summary.
type List struct {
	Out io.Writer
}

func (l *List) Begin() {}

func (l *List) Emit(rec pipeline.FileRecord) error {
	_, err := fmt.Fprintln(l.Out, rec.FullPath)
	return err
}

func (l *List) Summary(pipeline.RunResult) {}
