// Package backend watches the settings snapshot on disk so the inspector
// can pick up edits made by another process.
package backend

import (
	"context"
	"os"
	"sync"
	"time"
)

// Kind represents the type of data a watcher event refers to.
type Kind int

const (
	KindSettings Kind = iota
)

// Event conveys a detected change or an error from a poll.
type Event struct {
	Kind    Kind
	ModTime time.Time
	Err     error
}

type fingerprint struct {
	mod  time.Time
	size int64
}

// Watcher polls a file at a fixed interval and publishes an event whenever
// its modification time or size changes.
type Watcher struct {
	path     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that polls path every interval.
func NewWatcher(path string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current tick; use
// Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	last, _ := w.stat()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			current, err := w.stat()
			if err != nil {
				if !w.emit(Event{Kind: KindSettings, Err: err}) {
					return
				}
				continue
			}
			if current == last {
				continue
			}
			last = current
			if !w.emit(Event{Kind: KindSettings, ModTime: current.mod}) {
				return
			}
		}
	}
}

func (w *Watcher) stat() (fingerprint, error) {
	info, err := os.Stat(w.path)
	if os.IsNotExist(err) {
		// Not-yet-written snapshots are normal on first runs.
		return fingerprint{}, nil
	}
	if err != nil {
		return fingerprint{}, err
	}
	return fingerprint{mod: info.ModTime(), size: info.Size()}, nil
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
