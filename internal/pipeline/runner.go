package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/backmassage/canary/internal/display"
	"github.com/backmassage/canary/internal/logging"
	"github.com/backmassage/canary/internal/media"
	"github.com/backmassage/canary/internal/probe"
	"github.com/backmassage/canary/internal/scan"
)

// Reporter receives passing files. Emit returning an error moves the file
// from Passed to Errored.
type Reporter interface {
	Begin()
	Emit(rec FileRecord) error
	Summary(res RunResult)
}

// Options configures a single Run.
type Options struct {
	Fs             afero.Fs
	Prober         probe.Prober
	Reporter       Reporter
	Log            *logging.Logger
	Root           string
	MediaType      media.Type
	MaxPixelHeight int    // 0 means no limit.
	BackendName    string // Used in diagnostics for errors that do not name a backend.
}

// Run is the top-level entry point. It enumerates Root, probes and filters
// each file in order, and finishes with Reporter.Summary. Cancelling ctx
// stops the run before the next file; the partial result is still reported.
func Run(ctx context.Context, opts Options) RunResult {
	var res RunResult

	seq, err := scan.Enumerate(opts.Fs, opts.Root, media.ExtensionsFor(opts.MediaType))
	if err != nil {
		opts.Log.Error("File discovery failed: %v", err)
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	logRunHeader(opts)
	opts.Reporter.Begin()

	for path, walkErr := range seq {
		if walkErr != nil {
			opts.Log.Warn("%v", walkErr)
			res.Errors = append(res.Errors, walkErr.Error())
			continue
		}
		if ctx.Err() != nil {
			opts.Log.Warn("Interrupted")
			res.Interrupted = true
			break
		}
		processFile(ctx, opts, path, &res)
	}

	opts.Reporter.Summary(res)
	opts.Log.Debug("Done: %s", res)
	return res
}

// processFile handles one file: probe → build record → filter → report.
func processFile(ctx context.Context, opts Options, path string, res *RunResult) {
	pr, err := opts.Prober.Probe(ctx, path)
	if err != nil {
		msg := probeDiagnostic(path, opts.BackendName, err)
		opts.Log.Warn("%s", msg)
		res.errored(msg)
		return
	}

	rec := newRecord(path, opts.MediaType, pr)
	if !Keep(rec.Height, opts.MaxPixelHeight) {
		opts.Log.Debug("Skip (height %s >= %d px): %s", display.FormatPixels(rec.Height), opts.MaxPixelHeight, path)
		res.fail()
		return
	}

	if err := opts.Reporter.Emit(rec); err != nil {
		opts.Log.Error("%v", err)
		res.errored(err.Error())
		return
	}
	opts.Log.Debug("Match (%s, height %s): %s", display.FormatBytes(rec.Size), display.FormatPixels(rec.Height), path)
	res.pass(rec.Size)
}

// probeDiagnostic renders a probe failure as "<path> caused an error with
// <backend>: <cause>". *probe.Error already carries that shape.
func probeDiagnostic(path, backend string, err error) string {
	var pe *probe.Error
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return (&probe.Error{Backend: backend, Path: path, Err: err}).Error()
}

func logRunHeader(opts Options) {
	opts.Log.Debug("Scanning %s for %s files", opts.Root, opts.MediaType)
	if opts.MaxPixelHeight > 0 {
		opts.Log.Debug("Keeping files shorter than %d px", opts.MaxPixelHeight)
	} else {
		opts.Log.Debug("No pixel height limit")
	}
	if opts.BackendName != "" {
		opts.Log.Debug("Metadata backend: %s", opts.BackendName)
	}
}

// String renders a one-line tally, used in log output.
func (r RunResult) String() string {
	return fmt.Sprintf("%d processed, %d passed, %d failed, %d errors (%s)",
		r.Processed, r.Passed, r.Failed, r.Errored, display.FormatBytes(r.SizeSum))
}
