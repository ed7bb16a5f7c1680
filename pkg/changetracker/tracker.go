// Package changetracker tracks which workspace files have unsaved edits and
// turns bursts of rapid edits into a single debounced save completion per
// file.
package changetracker

import (
	"sync"
	"time"

	"github.com/sitesmith/sitesmith/pkg/workspace"
)

// DefaultDebounce is the quiet period after the last edit before a file is
// considered saved.
const DefaultDebounce = 2000 * time.Millisecond

// SaveEvent describes one completed save, either from a debounce firing or
// from an explicit save-now call.
type SaveEvent struct {
	Filename  string
	Manual    bool
	Diff      string
	Stats     DiffStats
	Timestamp time.Time
}

// Tracker observes workspace edits and maintains the dirty set. It never
// returns errors; every operation on a tracker is safe at any time.
type Tracker struct {
	mu        sync.Mutex
	ws        *workspace.Workspace
	delay     time.Duration
	dirty     map[string]struct{}
	timers    map[string]*time.Timer
	seq       map[string]uint64
	baselines map[string]string
	lastSaved time.Time
	onSave    func(SaveEvent)
}

// New creates a tracker observing the given workspace. A delay of zero uses
// DefaultDebounce. The tracker registers itself as the workspace notifier.
func New(ws *workspace.Workspace, delay time.Duration) *Tracker {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	t := &Tracker{
		ws:        ws,
		delay:     delay,
		dirty:     make(map[string]struct{}),
		timers:    make(map[string]*time.Timer),
		seq:       make(map[string]uint64),
		baselines: make(map[string]string),
	}
	for name, content := range ws.Files() {
		t.baselines[name] = content
	}
	ws.SetNotifier(t)
	return t
}

// OnSave registers a callback fired after each save completion. The callback
// runs outside the tracker lock.
func (t *Tracker) OnSave(fn func(SaveEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSave = fn
}

// FileChanged implements workspace.Notifier.
func (t *Tracker) FileChanged(filename string) {
	t.MarkDirty(filename)
}

// FileRemoved implements workspace.Notifier.
func (t *Tracker) FileRemoved(filename string) {
	t.Forget(filename)
}

// MarkDirty adds the file to the dirty set and restarts its debounce timer.
// A timer already pending for the file is cancelled and replaced, so a burst
// of edits completes exactly once, timed from the last edit.
func (t *Tracker) MarkDirty(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dirty[filename] = struct{}{}
	if timer, ok := t.timers[filename]; ok {
		timer.Stop()
	}
	t.seq[filename]++
	seq := t.seq[filename]
	t.timers[filename] = time.AfterFunc(t.delay, func() {
		t.complete(filename, seq, false)
	})
}

// MarkClean completes a save immediately: the pending timer is cancelled and
// the file leaves the dirty set. A file that is not dirty is a no-op.
func (t *Tracker) MarkClean(filename string) {
	t.mu.Lock()
	if _, ok := t.dirty[filename]; !ok {
		t.mu.Unlock()
		return
	}
	t.seq[filename]++
	seq := t.seq[filename]
	t.mu.Unlock()

	t.complete(filename, seq, true)
}

// Forget drops a deleted file from tracking entirely, cancelling any pending
// timer so a stale dirty flag cannot resurface if the name is reused.
func (t *Tracker) Forget(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[filename]; ok {
		timer.Stop()
		delete(t.timers, filename)
	}
	t.seq[filename]++
	delete(t.dirty, filename)
	delete(t.baselines, filename)
}

// IsDirty reports whether the file has unsaved edits.
func (t *Tracker) IsDirty(filename string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.dirty[filename]
	return ok
}

// HasAnyUnsaved reports whether any file has unsaved edits.
func (t *Tracker) HasAnyUnsaved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dirty) > 0
}

// DirtyFiles returns the filenames currently marked dirty.
func (t *Tracker) DirtyFiles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.dirty))
	for name := range t.dirty {
		names = append(names, name)
	}
	return names
}

// LastSaved returns the save point: the time of the last completed save, or
// the zero time when nothing has been saved yet.
func (t *Tracker) LastSaved() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSaved
}

// complete finishes a save for the given sequence number. A stale sequence
// means the file was edited again, cleaned, or forgotten after this
// completion was scheduled, so it does nothing.
func (t *Tracker) complete(filename string, seq uint64, manual bool) {
	t.mu.Lock()
	if t.seq[filename] != seq && !manual {
		t.mu.Unlock()
		return
	}
	if _, ok := t.dirty[filename]; !ok {
		t.mu.Unlock()
		return
	}

	delete(t.dirty, filename)
	delete(t.timers, filename)
	now := time.Now()
	t.lastSaved = now

	content, _ := t.ws.Content(filename)
	previous := t.baselines[filename]
	t.baselines[filename] = content
	callback := t.onSave
	t.mu.Unlock()

	if callback != nil {
		diff, stats := prettyDiff(previous, content)
		callback(SaveEvent{
			Filename:  filename,
			Manual:    manual,
			Diff:      diff,
			Stats:     stats,
			Timestamp: now,
		})
	}
}
