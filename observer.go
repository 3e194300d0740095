package basiclogger

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/jufman/basiclogger/formatter"
)

// Observer receives every logged event between Load and Unload.
// OnEvent runs synchronously on the logging goroutine and must not block or panic
type Observer interface {
	OnLoad() error
	OnUnload() error
	OnEvent(ev Event)
}

// ObserverFunc adapts a function to an Observer with no-op load and unload hooks
type ObserverFunc func(ev Event)

func (f ObserverFunc) OnLoad() error    { return nil }
func (f ObserverFunc) OnUnload() error  { return nil }
func (f ObserverFunc) OnEvent(ev Event) { f(ev) }

// observerEntry tracks whether an observer loaded successfully
type observerEntry struct {
	obs    Observer
	active atomic.Bool
}

// observerRegistry keeps observers in registration order
type observerRegistry struct {
	mu      sync.RWMutex
	entries []*observerEntry
}

// add appends an inactive observer
func (r *observerRegistry) add(o Observer) {
	r.mu.Lock()
	r.entries = append(r.entries, &observerEntry{obs: o})
	r.mu.Unlock()
}

// snapshot returns the current entries without holding the lock during callbacks
func (r *observerRegistry) snapshot() []*observerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries
}

// notify forwards an event to each active observer in order
func (r *observerRegistry) notify(ev Event) {
	for _, e := range r.snapshot() {
		if e.active.Load() {
			e.obs.OnEvent(ev)
		}
	}
}

// load calls OnLoad on each inactive observer; failures are passed to onErr and stay inactive
func (r *observerRegistry) load(onErr func(Observer, error)) {
	for _, e := range r.snapshot() {
		if e.active.Load() {
			continue
		}
		if err := e.obs.OnLoad(); err != nil {
			onErr(e.obs, err)
			continue
		}
		e.active.Store(true)
	}
}

// unload calls OnUnload on each active observer and deactivates it
func (r *observerRegistry) unload() error {
	var errs error
	for _, e := range r.snapshot() {
		if !e.active.Swap(false) {
			continue
		}
		if err := e.obs.OnUnload(); err != nil {
			errs = combineErrors(errs, fmtErrorf("observer %T failed to unload: %w", e.obs, err))
		}
	}
	return errs
}

// ConsoleObserver mirrors events as formatted lines to a writer, typically os.Stdout
type ConsoleObserver struct {
	mu       sync.Mutex
	w        io.Writer
	f        *formatter.Formatter
	minLevel Level
}

// NewConsoleObserver creates an observer writing txt lines for events at or above minLevel
func NewConsoleObserver(w io.Writer, minLevel Level) *ConsoleObserver {
	return &ConsoleObserver{
		w:        w,
		f:        formatter.New(),
		minLevel: minLevel,
	}
}

func (c *ConsoleObserver) OnLoad() error   { return nil }
func (c *ConsoleObserver) OnUnload() error { return nil }

// OnEvent writes one line; write errors are ignored
func (c *ConsoleObserver) OnEvent(ev Event) {
	if ev.Level < c.minLevel {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.w.Write(c.f.Format(ev.Time, ev.Level.String(), ev.Message))
}
