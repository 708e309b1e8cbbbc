package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/backmassage/canary/internal/config"
	"github.com/backmassage/canary/internal/logging"
	"github.com/backmassage/canary/internal/media"
	"github.com/backmassage/canary/internal/probe"
)

// --- Test doubles ---

type fakeProber struct {
	results map[string]*probe.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeProber) Probe(_ context.Context, path string) (*probe.Result, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if r, ok := f.results[path]; ok {
		return r, nil
	}
	return nil, &probe.Error{Backend: "fake", Path: path, Err: probe.ErrUnreadable}
}

type fakeReporter struct {
	began    bool
	emitted  []FileRecord
	failOn   map[string]error
	summary  *RunResult
	sumCalls int
}

func (r *fakeReporter) Begin() { r.began = true }

func (r *fakeReporter) Emit(rec FileRecord) error {
	if err, ok := r.failOn[rec.FullPath]; ok {
		return err
	}
	r.emitted = append(r.emitted, rec)
	return nil
}

func (r *fakeReporter) Summary(res RunResult) {
	r.summary = &res
	r.sumCalls++
}

// --- Helpers ---

func intp(n int) *int { return &n }

func result(path string, size int64, height *int) *probe.Result {
	mod := time.Date(2021, 6, 1, 12, 30, 45, 0, time.UTC)
	g := probe.Track{
		Type:         probe.TrackGeneral,
		FolderName:   "/lib",
		FileName:     strings.TrimSuffix(strings.TrimPrefix(path, "/lib/"), ".mkv"),
		Extension:    "mkv",
		CompleteName: path,
		Size:         &size,
		Modified:     &mod,
	}
	res := &probe.Result{Tracks: []probe.Track{g}}
	if height != nil {
		res.Tracks = append(res.Tracks, probe.Track{Type: probe.TrackVideo, Width: intp(*height * 16 / 9), Height: height})
	}
	return res
}

func newFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/lib", 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if err := afero.WriteFile(fsys, p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func testLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Verbose = true
	var buf bytes.Buffer
	l, err := logging.NewWriterLogger(&cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return l, &buf
}

func checkInvariant(t *testing.T, res RunResult) {
	t.Helper()
	if res.Processed != res.Passed+res.Failed+res.Errored {
		t.Errorf("processed %d != passed %d + failed %d + errored %d",
			res.Processed, res.Passed, res.Failed, res.Errored)
	}
}

// --- Keep tests ---

func TestKeep(t *testing.T) {
	tests := []struct {
		name      string
		height    *int
		maxHeight int
		want      bool
	}{
		{"unknown height", nil, 720, true},
		{"no limit", intp(2160), 0, true},
		{"below limit", intp(480), 720, true},
		{"equal to limit", intp(720), 720, false},
		{"above limit", intp(1080), 720, false},
		{"one below limit", intp(719), 720, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Keep(tc.height, tc.maxHeight); got != tc.want {
				t.Errorf("Keep(%v, %d) = %v, want %v", tc.height, tc.maxHeight, got, tc.want)
			}
		})
	}
}

// --- Run tests ---

func TestRun_CountsAndSizeSum(t *testing.T) {
	fsys := newFs(t, "/lib/a.mkv", "/lib/b.mkv", "/lib/c.mkv", "/lib/d.mkv", "/lib/notes.txt")
	prober := &fakeProber{
		results: map[string]*probe.Result{
			"/lib/a.mkv": result("/lib/a.mkv", 1000, intp(480)),
			"/lib/b.mkv": result("/lib/b.mkv", 5000, intp(1080)),
			"/lib/c.mkv": result("/lib/c.mkv", 300, nil),
		},
		errs: map[string]error{"/lib/d.mkv": errors.New("boom")},
	}
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video, MaxPixelHeight: 720, BackendName: "mediainfo",
	})

	checkInvariant(t, res)
	if res.Processed != 4 || res.Passed != 2 || res.Failed != 1 || res.Errored != 1 {
		t.Errorf("counts: got %+v", res)
	}
	if res.SizeSum != 1300 {
		t.Errorf("SizeSum: got %d, want 1300", res.SizeSum)
	}
	want := "/lib/d.mkv caused an error with mediainfo: boom"
	if len(res.Errors) != 1 || res.Errors[0] != want {
		t.Errorf("Errors: got %q, want [%q]", res.Errors, want)
	}

	if !rep.began || rep.sumCalls != 1 {
		t.Errorf("reporter lifecycle: began=%v summaries=%d", rep.began, rep.sumCalls)
	}
	if len(rep.emitted) != 2 || rep.emitted[0].FullPath != "/lib/a.mkv" || rep.emitted[1].FullPath != "/lib/c.mkv" {
		t.Fatalf("emitted: got %+v", rep.emitted)
	}
	if h := rep.emitted[0].Height; h == nil || *h != 480 {
		t.Errorf("emitted height: got %v", h)
	}
	if rep.emitted[1].Height != nil {
		t.Errorf("file without a video track should have nil height")
	}
	if rep.summary.Passed != 2 {
		t.Errorf("summary result: got %+v", rep.summary)
	}

	for _, p := range prober.calls {
		if strings.HasSuffix(p, ".txt") {
			t.Errorf("probed a non-video file: %s", p)
		}
	}
}

func TestRun_ZeroLimitPassesEverything(t *testing.T) {
	fsys := newFs(t, "/lib/a.mkv", "/lib/b.mkv")
	prober := &fakeProber{results: map[string]*probe.Result{
		"/lib/a.mkv": result("/lib/a.mkv", 10, intp(4320)),
		"/lib/b.mkv": result("/lib/b.mkv", 20, intp(240)),
	}}
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video,
	})
	checkInvariant(t, res)
	if res.Passed != 2 || res.SizeSum != 30 {
		t.Errorf("got %+v", res)
	}
}

func TestRun_TextHasNoDimensions(t *testing.T) {
	fsys := newFs(t, "/lib/readme.txt")
	prober := &fakeProber{results: map[string]*probe.Result{
		"/lib/readme.txt": result("/lib/readme.txt", 42, intp(2000)),
	}}
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Text, MaxPixelHeight: 10,
	})
	checkInvariant(t, res)
	if res.Passed != 1 {
		t.Fatalf("text file should pass: %+v", res)
	}
	if rep.emitted[0].Width != nil || rep.emitted[0].Height != nil {
		t.Errorf("text record should have no dimensions: %+v", rep.emitted[0])
	}
}

func TestRun_EmitFailureCountsAsError(t *testing.T) {
	fsys := newFs(t, "/lib/a.mkv", "/lib/b.mkv")
	prober := &fakeProber{results: map[string]*probe.Result{
		"/lib/a.mkv": result("/lib/a.mkv", 100, intp(480)),
		"/lib/b.mkv": result("/lib/b.mkv", 200, intp(480)),
	}}
	rep := &fakeReporter{failOn: map[string]error{
		"/lib/a.mkv": errors.New("/lib/a.mkv could not be deleted: permission denied"),
	}}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video, MaxPixelHeight: 720,
	})
	checkInvariant(t, res)
	if res.Passed != 1 || res.Errored != 1 {
		t.Errorf("counts: got %+v", res)
	}
	if res.SizeSum != 200 {
		t.Errorf("SizeSum should exclude the failed file: got %d", res.SizeSum)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "could not be deleted") {
		t.Errorf("Errors: got %q", res.Errors)
	}
}

func TestRun_ProbeErrorKeepsBackendAttribution(t *testing.T) {
	fsys := newFs(t, "/lib/a.mkv")
	prober := &fakeProber{errs: map[string]error{
		"/lib/a.mkv": &probe.Error{Backend: "ffprobe", Path: "/lib/a.mkv", Err: probe.ErrUnreadable},
	}}
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video, BackendName: "mediainfo",
	})
	want := "/lib/a.mkv caused an error with ffprobe: metadata could not be read"
	if len(res.Errors) != 1 || res.Errors[0] != want {
		t.Errorf("Errors: got %q, want [%q]", res.Errors, want)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	fsys := newFs(t, "/lib/a.mkv", "/lib/b.mkv")
	prober := &fakeProber{}
	rep := &fakeReporter{}
	log, buf := testLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Run(ctx, Options{
		Fs: fsys, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video,
	})
	if !res.Interrupted || res.Processed != 0 {
		t.Errorf("got %+v", res)
	}
	if len(prober.calls) != 0 {
		t.Errorf("prober called after cancel: %v", prober.calls)
	}
	if rep.sumCalls != 1 {
		t.Errorf("summary should still be reported")
	}
	if !strings.Contains(buf.String(), "Interrupted") {
		t.Errorf("expected interrupt warning, got %q", buf.String())
	}
}

// lockedDirFs refuses to open one directory below the root.
type lockedDirFs struct {
	afero.Fs
	locked string
}

func (l lockedDirFs) Open(name string) (afero.File, error) {
	if name == l.locked {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return l.Fs.Open(name)
}

func TestRun_UnreadableSubdirDoesNotStopRun(t *testing.T) {
	mem := newFs(t, "/lib/z.mkv")
	if err := mem.MkdirAll("/lib/a_locked", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(mem, "/lib/a_locked/x.mkv", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	prober := &fakeProber{results: map[string]*probe.Result{
		"/lib/z.mkv": result("/lib/z.mkv", 700, intp(480)),
	}}
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: lockedDirFs{Fs: mem, locked: "/lib/a_locked"}, Prober: prober, Reporter: rep, Log: log,
		Root: "/lib", MediaType: media.Video, MaxPixelHeight: 720,
	})

	checkInvariant(t, res)
	if res.Processed != 1 || res.Passed != 1 || res.SizeSum != 700 {
		t.Errorf("readable sibling should still be processed: %+v", res)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "/lib/a_locked could not be scanned") {
		t.Errorf("Errors: got %q", res.Errors)
	}
	if len(rep.emitted) != 1 || rep.emitted[0].FullPath != "/lib/z.mkv" {
		t.Errorf("emitted: got %+v", rep.emitted)
	}
}

func TestRun_InvalidRoot(t *testing.T) {
	rep := &fakeReporter{}
	log, _ := testLogger(t)

	res := Run(context.Background(), Options{
		Fs: afero.NewMemMapFs(), Prober: &fakeProber{}, Reporter: rep, Log: log,
		Root: "/missing", MediaType: media.Video,
	})
	if res.Processed != 0 || len(res.Errors) != 1 {
		t.Errorf("got %+v", res)
	}
	if rep.began || rep.sumCalls != 0 {
		t.Errorf("reporter should not run for an invalid root")
	}
}

func TestNewRecord_WithoutGeneralTrack(t *testing.T) {
	res := &probe.Result{Tracks: []probe.Track{{Type: probe.TrackImage, Width: intp(64), Height: intp(32)}}}
	rec := newRecord("/pics/holiday/beach.JPG", media.Image, res)

	if rec.FolderName != "/pics/holiday" || rec.FileName != "beach" || rec.Extension != "JPG" {
		t.Errorf("naming: got %q %q %q", rec.FolderName, rec.FileName, rec.Extension)
	}
	if rec.Size != 0 || !rec.LastModified.IsZero() {
		t.Errorf("unknown size and date should be zero: %+v", rec)
	}
	if rec.Height == nil || *rec.Height != 32 {
		t.Errorf("height: got %v", rec.Height)
	}
}

func TestRunResult_String(t *testing.T) {
	r := RunResult{Processed: 3, Passed: 1, Failed: 1, Errored: 1, SizeSum: 1500}
	want := "3 processed, 1 passed, 1 failed, 1 errors (1.5 KB)"
	if got := r.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
