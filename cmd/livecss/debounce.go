package main

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of file system events into one callback per
// quiet window. Editors fire several events for a single save; without
// coalescing every one of them would trigger a full rescan.
type debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

func newDebouncer(window time.Duration, callback func(paths []string)) *debouncer {
	return &debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the quiet window.
func (d *debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs when the quiet window expires without further events.
func (d *debouncer) fire() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	paths := d.take()
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(paths)
	}
}

// take drains the pending set. Callers hold d.mu.
func (d *debouncer) take() []string {
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]struct{})
	d.timer = nil
	return paths
}

// Flush runs the callback synchronously with whatever is pending, instead
// of waiting out the window.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil && !d.timer.Stop() {
		// The timer already fired; let that run rather than process twice.
		d.mu.Unlock()
		return
	}
	paths := d.take()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}
