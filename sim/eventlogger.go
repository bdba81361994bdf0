package sim

import (
	"log"
	"reflect"
)

// LogHookBase gives a hook a logger to write into.
type LogHookBase struct {
	*log.Logger
}

// EventLogger prints every event the engine is about to handle.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger creates an EventLogger that writes into logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func implements Hook.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	kind := reflect.TypeOf(evt)

	named, ok := evt.Handler().(Named)
	if !ok {
		h.Printf("%.10f, %s", evt.Time(), kind)
		return
	}

	if evt.IsSecondary() {
		h.Printf("%.10f, %s -> %s (secondary)", evt.Time(), kind, named.Name())
		return
	}

	h.Printf("%.10f, %s -> %s", evt.Time(), kind, named.Name())
}
