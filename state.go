package basiclogger

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state of the logger
type State struct {
	Loaded             atomic.Bool
	Unloaded           atomic.Bool
	WriteFailureLogged atomic.Bool // Set after a disk write failure was reported, cleared on the next good write

	LoadedAt atomic.Value // stores time.Time

	TotalEvents   atomic.Uint64 // Events accepted by LogEvent
	LinesWritten  atomic.Uint64 // Lines appended to log files
	AlertsQueued  atomic.Uint64 // Events routed to the email buffer
	EmailsSent    atomic.Uint64
	EmailsFailed  atomic.Uint64
	DroppedEvents atomic.Uint64 // Events lost to write failures or logged after Unload
	DroppedAlerts atomic.Uint64 // Events lost with a failed report
	reportSeq     atomic.Uint64 // Sequence for report Message-IDs
}

// Stats is a point-in-time copy of the logger counters
type Stats struct {
	Loaded        bool
	Uptime        time.Duration
	TotalEvents   uint64
	LinesWritten  uint64
	AlertsQueued  uint64
	EmailsSent    uint64
	EmailsFailed  uint64
	DroppedEvents uint64
	DroppedAlerts uint64
	PendingDisk   int
	PendingEmail  int
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	st := Stats{
		Loaded:        l.state.Loaded.Load(),
		TotalEvents:   l.state.TotalEvents.Load(),
		LinesWritten:  l.state.LinesWritten.Load(),
		AlertsQueued:  l.state.AlertsQueued.Load(),
		EmailsSent:    l.state.EmailsSent.Load(),
		EmailsFailed:  l.state.EmailsFailed.Load(),
		DroppedEvents: l.state.DroppedEvents.Load(),
		DroppedAlerts: l.state.DroppedAlerts.Load(),
		PendingDisk:   l.diskBuf.len(),
		PendingEmail:  l.emailBuf.len(),
	}
	if st.Loaded {
		if t, ok := l.state.LoadedAt.Load().(time.Time); ok && !t.IsZero() {
			st.Uptime = l.now().Sub(t)
		}
	}
	return st
}
