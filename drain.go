package basiclogger

import (
	"sync"
	"sync/atomic"
	"time"
)

// drainer periodically drains a buffer and hands the batch to a process function.
// The logger runs two of them: file flush and alert dispatch
type drainer[T any] struct {
	name     string
	interval time.Duration
	buf      *buffer[T]
	process  func([]T) error

	runMu   sync.Mutex // Serializes batches between ticks and forced drains
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newDrainer creates a stopped drainer
func newDrainer[T any](name string, interval time.Duration, buf *buffer[T], process func([]T) error) *drainer[T] {
	if interval <= 0 {
		interval = minDrainInterval
	}
	return &drainer[T]{
		name:     name,
		interval: interval,
		buf:      buf,
		process:  process,
	}
}

// start launches the background loop. Safe to call multiple times
func (d *drainer[T]) start() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.loop(d.stopCh, d.doneCh)
}

// loop is the sleep-then-work cycle running in its own goroutine
func (d *drainer[T]) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A stop that raced with the tick wins
			select {
			case <-stop:
				return
			default:
			}
			_ = d.drainOnce()
		}
	}
}

// stop prevents future iterations and waits for an in-flight one to finish.
// Returns immediately if the loop is not running
func (d *drainer[T]) stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}
	close(d.stopCh)
	<-d.doneCh
}

// drainOnce swaps out the buffer and processes the batch synchronously.
// An empty buffer is a no-op
func (d *drainer[T]) drainOnce() error {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	items := d.buf.drain()
	if len(items) == 0 {
		return nil
	}
	return d.process(items)
}
