// Command canary is the CLI entrypoint. It scans a directory tree for video,
// image or text files and lists, tabulates or deletes the ones below a pixel
// height limit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/backmassage/canary/internal/check"
	"github.com/backmassage/canary/internal/config"
	"github.com/backmassage/canary/internal/display"
	"github.com/backmassage/canary/internal/logging"
	"github.com/backmassage/canary/internal/pipeline"
	"github.com/backmassage/canary/internal/probe"
	"github.com/backmassage/canary/internal/report"
	"github.com/backmassage/canary/internal/scan"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr, followed by the usage text.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, config.ErrHelp):
			config.PrintUsage(os.Stdout, version)
			return 0
		case errors.Is(err, config.ErrVersion):
			fmt.Printf("canary %s (%s)\n", version, commit)
			return 0
		}
		return usageError(err)
	}

	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "canary: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. Logs go to stderr; stdout is the report.
	if cfg.CheckOnly {
		display.PrintBanner(os.Stderr)
		check.RunCheck(&cfg, log)
		return 0
	}
	if log.Verbose() {
		display.PrintBanner(os.Stderr)
	}

	if cfg.HeightIgnored {
		log.Warn("Max pixel height does not apply to %s files and is ignored", cfg.MediaType)
	}

	fsys := afero.NewOsFs()
	if err := scan.CheckRoot(fsys, cfg.RootPath); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Fail fast if the selected backend's tool is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("Install it, point --%s at it, or use --backend native", cfg.Backend)
		return 1
	}

	prober, err := probe.New(string(cfg.Backend), cfg.BackendBinary(), fsys)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling starts once the run does, so an interrupt at
	// the delete prompt still terminates the process. After that SIGINT and
	// SIGTERM cancel the context; the run stops between files and still
	// prints its summary.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	defer signal.Stop(sigCh)
	withSignals := func() context.Context {
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			if _, ok := <-sigCh; ok {
				log.Warn("Received interrupt, stopping after the current file")
				cancel()
			}
		}()
		return ctx
	}

	// Phase 4: Confirm (delete only), then enumerate → probe → filter → report.
	res, err := scanAndReport(&cfg, fsys, prober, log, os.Stdin, os.Stdout, withSignals)
	if err != nil {
		if errors.Is(err, report.ErrAborted) {
			log.Warn("%v", err)
		} else {
			log.Error("%v", err)
		}
		return 1
	}
	if res.Interrupted {
		return 1
	}
	return 0
}

// scanAndReport runs the all-or-nothing delete confirmation when cfg asks
// for deletion, then the scan itself. start is called only after the gate
// has passed and supplies the run's context.
func scanAndReport(
	cfg *config.Config,
	fsys afero.Fs,
	prober probe.Prober,
	log *logging.Logger,
	in io.Reader,
	out io.Writer,
	start func() context.Context,
) (pipeline.RunResult, error) {
	if cfg.OutputType == config.OutputDelete {
		if err := report.Confirm(in, out, cfg.RootPath); err != nil {
			return pipeline.RunResult{}, err
		}
	}

	rep, err := report.New(report.Options{
		Output:    cfg.OutputType,
		Out:       out,
		Fs:        fsys,
		MediaType: cfg.MediaType,
		Root:      cfg.RootPath,
	})
	if err != nil {
		return pipeline.RunResult{}, err
	}

	return pipeline.Run(start(), pipeline.Options{
		Fs:             fsys,
		Prober:         prober,
		Reporter:       rep,
		Log:            log,
		Root:           cfg.RootPath,
		MediaType:      cfg.MediaType,
		MaxPixelHeight: cfg.MaxPixelHeight,
		BackendName:    string(cfg.Backend),
	}), nil
}

// usageError reports a bootstrap error followed by the help text.
func usageError(err error) int {
	fmt.Fprintf(os.Stderr, "canary: %v\n\n", err)
	config.PrintUsage(os.Stderr, version)
	return 1
}
