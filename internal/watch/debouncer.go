package watch

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Debouncer batches file events until the watched files have been quiet
// for the configured interval, then hands the distinct changed paths to
// the callback in the order they first changed. Saving the input and the
// rules file together therefore costs one conversion, not two.
type Debouncer struct {
	interval time.Duration
	callback func(paths []string)
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []string
}

// NewDebouncer creates a debouncer. A nil logger discards panic reports.
func NewDebouncer(interval time.Duration, logger *slog.Logger, callback func(paths []string)) *Debouncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Debouncer{
		interval: interval,
		callback: callback,
		logger:   logger,
	}
}

// Trigger records a change of path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !slices.Contains(d.pending, path) {
		d.pending = append(d.pending, path)
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	paths := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(paths) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("conversion panicked", slog.Any("paths", paths), slog.Any("error", r))
		}
	}()

	d.callback(paths)
}

// Pending returns the changed paths not yet handed to the callback.
func (d *Debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.pending)
}

// Stop cancels the pending batch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.pending = nil
}
