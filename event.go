package basiclogger

import "time"

// Event is a single logged message. Events are values and never modified after creation
type Event struct {
	Time    time.Time
	Level   Level
	Message string
}
