package sim

import "log"

// LogHookBase provides the common logic for hooks that record information
// from the simulation into a *log.Logger.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a Hook that prints one line per dispatched event. It is
// meant for low-level debugging of the scheduler itself; the trace fabric
// (package trace) is the user-facing observation channel and is wired in
// separately.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns an EventLogger that writes through logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{LogHookBase{Logger: logger}}
}

// Func writes the event's time into the logger just before it is handled.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	se, ok := ctx.Item.(*scheduledEvent)
	if !ok {
		return
	}

	h.Logger.Printf("%.10f [evt %d]", se.Time(), se.handle)
}
