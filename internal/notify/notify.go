// Package notify carries semantic events from the engine to whatever
// presents them. The engine never renders toasts itself; it emits an Event
// and the presentation layer decides what to do with it.
package notify

import "github.com/rs/zerolog"

// Level classifies an event.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Event is one semantic notification. Retry, when set, re-attempts the exact
// operation that produced the event; Undo, when set, reverses a committed
// one.
type Event struct {
	Level   Level
	Message string
	Retry   func()
	Undo    func()
}

// Notifier receives events. Implementations must not block; they are called
// from engine goroutines.
type Notifier interface {
	Notify(Event)
}

// Func adapts a function to the Notifier interface.
type Func func(Event)

func (f Func) Notify(e Event) { f(e) }

// Logged returns a notifier that records every event through log, used as
// the fallback when no presenter is attached.
func Logged(log zerolog.Logger) Notifier {
	return Func(func(e Event) {
		entry := log.Info()
		switch e.Level {
		case Warning:
			entry = log.Warn()
		case Error:
			entry = log.Error()
		}
		entry.Str("level", string(e.Level)).Msg(e.Message)
	})
}
