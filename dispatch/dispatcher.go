package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handler consumes one decoded event. A returned error is logged as a
// recoverable handler fault and never stops delivery to other handlers
// or later events.
type Handler func(ctx context.Context, ev any) error

// Dispatcher routes decoded events to registered handlers. Each event
// name has at most one primary handler plus any number of listeners;
// delivery order is primary first, then listeners in registration
// order. Handlers for one event run sequentially; handler panics are
// recovered and logged.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]registration

	// OnFault, if set, is invoked once per isolated handler fault.
	OnFault func(event string)
}

type registration struct {
	h       Handler
	primary bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string][]registration),
	}
}

// Register sets the primary handler for an event name. At most one
// primary handler may exist per name.
func (d *Dispatcher) Register(event string, h Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, reg := range d.handlers[event] {
		if reg.primary {
			return fmt.Errorf("primary handler already registered for %q", event)
		}
	}
	// Primary goes first so it runs before listeners registered earlier.
	d.handlers[event] = append([]registration{{h: h, primary: true}}, d.handlers[event]...)
	return nil
}

// Listen appends a listener for an event name. Multiple listeners may
// be registered for the same name; they run in registration order.
func (d *Dispatcher) Listen(event string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], registration{h: h})
}

// Dispatch delivers a decoded event to every handler registered for
// the name, sequentially. Names with no registrations are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload any) {
	d.mu.RLock()
	regs := d.handlers[event]
	d.mu.RUnlock()

	for _, reg := range regs {
		d.invoke(ctx, event, reg.h, payload)
	}
}

func (d *Dispatcher) invoke(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			d.fault(event, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := h(ctx, payload); err != nil {
		d.fault(event, err)
	}
}

func (d *Dispatcher) fault(event string, err error) {
	d.logger.Error("handler fault", "event", event, "error", err)
	if d.OnFault != nil {
		d.OnFault(event)
	}
}
