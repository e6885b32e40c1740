package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer written from the debouncer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644)) //nolint:gosec // test

	return p
}

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

// batches collects debouncer callbacks.
type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([][]string(nil), b.got...)
}

func TestDebouncer_SingleEvent(t *testing.T) {
	b := &batches{}

	d := NewDebouncer(50*time.Millisecond, nil, b.add)
	defer d.Stop()

	d.Trigger("data.ttl")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, [][]string{{"data.ttl"}}, b.all())
}

func TestDebouncer_MultipleEventsCoalesced(t *testing.T) {
	b := &batches{}

	d := NewDebouncer(100*time.Millisecond, nil, b.add)
	defer d.Stop()

	for range 10 {
		d.Trigger("data.ttl")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, [][]string{{"data.ttl"}}, b.all())
}

func TestDebouncer_BatchesDistinctPaths(t *testing.T) {
	b := &batches{}

	d := NewDebouncer(50*time.Millisecond, nil, b.add)
	defer d.Stop()

	d.Trigger("data.ttl")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("rules.yaml")
	d.Trigger("data.ttl")

	assert.Equal(t, []string{"data.ttl", "rules.yaml"}, d.Pending())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, [][]string{{"data.ttl", "rules.yaml"}}, b.all())
	assert.Empty(t, d.Pending())
}

func TestDebouncer_SeparateQuietPeriods(t *testing.T) {
	b := &batches{}

	d := NewDebouncer(30*time.Millisecond, nil, b.add)
	defer d.Stop()

	d.Trigger("data.ttl")
	time.Sleep(120 * time.Millisecond)
	d.Trigger("rules.yaml")
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, [][]string{{"data.ttl"}, {"rules.yaml"}}, b.all())
}

func TestDebouncer_Stop(t *testing.T) {
	b := &batches{}

	d := NewDebouncer(50*time.Millisecond, nil, b.add)

	d.Trigger("data.ttl")
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, b.all())
	assert.Empty(t, d.Pending())
}

func TestDebouncer_RecoversFromPanic(t *testing.T) {
	var buf syncBuffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var calls atomic.Int32

	d := NewDebouncer(20*time.Millisecond, logger, func([]string) {
		calls.Add(1)
		panic("boom")
	})
	defer d.Stop()

	d.Trigger("data.ttl")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, buf.String(), "conversion panicked")
	assert.Contains(t, buf.String(), "boom")
}

func TestTriggerName(t *testing.T) {
	assert.Equal(t, "data.ttl", triggerName([]string{"/tmp/x/data.ttl"}))
	assert.Equal(t, "data.ttl, rules.yaml", triggerName([]string{"/a/data.ttl", "/b/rules.yaml"}))
}

// ---------------------------------------------------------------------------
// Delta
// ---------------------------------------------------------------------------

func TestDelta(t *testing.T) {
	prev := &RunResult{Accepted: 3, Rejected: 1, Bytes: 40}

	assert.Empty(t, Delta(nil, prev))
	assert.Equal(t, "unchanged", Delta(prev, &RunResult{Accepted: 3, Rejected: 1, Bytes: 40}))
	assert.Equal(t, "accepted +2, rejected -1, bytes +12",
		Delta(prev, &RunResult{Accepted: 5, Rejected: 0, Bytes: 52}))
	assert.Equal(t, "duplicates +1", Delta(prev, &RunResult{Accepted: 3, Rejected: 1, Duplicates: 1, Bytes: 40}))
}

// ---------------------------------------------------------------------------
// isRelevant
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.ttl")
	targets := map[string]bool{target: true}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"write", target, fsnotify.Write, true},
		{"create", target, fsnotify.Create, true},
		{"remove", target, fsnotify.Remove, true},
		{"rename", target, fsnotify.Rename, true},
		{"chmod only", target, fsnotify.Chmod, false},
		{"zero op", target, 0, false},
		{"sibling file", filepath.Join(dir, "out.csv"), fsnotify.Write, false},
		{"swap file", filepath.Join(dir, ".data.ttl.swp"), fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: tt.op}
			assert.Equal(t, tt.want, isRelevant(event, targets))
		})
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 300*time.Millisecond, opts.Debounce)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Out)
	assert.Empty(t, opts.Files)
}

func TestRun_NoFiles(t *testing.T) {
	err := Run(context.Background(), Options{Out: io.Discard}, func(_ context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files to watch")
}

func TestRun_MissingFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Files = []string{"/nonexistent/semconvert/data.ttl"}
	opts.Out = io.Discard

	err := Run(context.Background(), opts, func(_ context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}

func TestRun_GracefulShutdown(t *testing.T) {
	input := writeInput(t, t.TempDir(), "data.ttl", "<s> <p> <o> .\n")

	ctx, cancel := context.WithCancel(context.Background())

	var runCount atomic.Int32

	out := &syncBuffer{}

	opts := DefaultOptions()
	opts.Files = []string{input}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = out

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{Accepted: 1}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runCount.Load())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not shut down in time")
	}

	assert.Contains(t, out.String(), "(initial) → OK (1 quads, 0 rejected)")
	assert.Contains(t, out.String(), "shutting down watcher")
}

func TestRun_FileChangeTriggersConversion(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "data.ttl", "<s> <p> <o> .\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	out := &syncBuffer{}

	opts := DefaultOptions()
	opts.Files = []string{input}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = out

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			n := int(runCount.Add(1))
			return &RunResult{Accepted: n}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	require.NoError(t, os.WriteFile(input, []byte("<s> <p> <o2> .\n"), 0o644)) //nolint:gosec // test

	time.Sleep(300 * time.Millisecond)
	assert.Greater(t, runCount.Load(), initialRuns, "input change should trigger a conversion")

	cancel()
	<-done

	assert.Contains(t, out.String(), "data.ttl → OK")
	assert.Contains(t, out.String(), "change: accepted +1")
}

func TestRun_SiblingWritesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "data.ttl", "<s> <p> <o> .\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.Files = []string{input}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)

	writeInput(t, dir, "out.csv", ",p\ns,o\n")

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), runCount.Load())

	cancel()
	<-done
}

func TestRun_RunFuncError(t *testing.T) {
	input := writeInput(t, t.TempDir(), "data.ttl", "broken")

	ctx, cancel := context.WithCancel(context.Background())

	out := &syncBuffer{}

	opts := DefaultOptions()
	opts.Files = []string{input}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = out

	var callCount atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			callCount.Add(1)
			return nil, fmt.Errorf("error parsing input data")
		})
	}()

	// The failed initial run does not stop the watcher.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, callCount.Load(), int32(1))

	cancel()
	<-done

	assert.Contains(t, out.String(), "ERROR: error parsing input data")
}

func TestRun_MultipleFilesShareDirectory(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "data.ttl", "")
	rules := writeInput(t, dir, "rules.yaml", "denyPredLike: [p2]\n")
	other := writeInput(t, t.TempDir(), "profiles.yaml", "")

	ctx, cancel := context.WithCancel(context.Background())

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.Files = []string{input, rules, other}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(rules, []byte("denyPredLike: [p3]\n"), 0o644)) //nolint:gosec // test

	time.Sleep(300 * time.Millisecond)
	assert.GreaterOrEqual(t, runCount.Load(), int32(2))

	cancel()
	<-done
}
