// Package eventbus fans out row-change events to in-process subscribers.
// Services publish after a successful write; the realtime controller
// subscribes on behalf of each WebSocket client.
package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventAny matches every event type in a subscription filter.
	EventAny EventType = "*"
)

// Table names published on the bus.
const (
	TableProfiles        = "profiles"
	TableUnits           = "units"
	TableBillingMonths   = "billing_months"
	TablePayments        = "payments"
	TableInvoices        = "invoices"
	TableReceipts        = "receipts"
	TableNotifications   = "notifications"
	TableUserPreferences = "user_preferences"
)

// ChangeEvent describes one row change. Subscribers re-fetch; the event
// carries no row payload.
type ChangeEvent struct {
	Table    string     `json:"table"`
	Event    EventType  `json:"event"`
	RowID    uuid.UUID  `json:"id"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	At       time.Time  `json:"at"`
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, evt ChangeEvent)
}

// Handler processes an event. Implementations must be safe for concurrent
// calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt ChangeEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt ChangeEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt ChangeEvent) error {
	return f(ctx, evt)
}

// Bus dispatches published events to subscribers from a single goroutine.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]namedHandler
	nextID      uint64
	events      chan ChangeEvent
	done        chan struct{}
	stopOnce    sync.Once

	// closed guards events against sends after Stop.
	closeMu sync.RWMutex
	closed  bool
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		subscribers: make(map[uint64]namedHandler),
		events:      make(chan ChangeEvent, bufSize),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a named handler and returns a function that removes it.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = namedHandler{name: name, handler: h}
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Publish never blocks. When the buffer is full, or the bus is stopped, the
// event is dropped.
func (b *Bus) Publish(ctx context.Context, evt ChangeEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		utils.Logger.Debugf("eventbus: stopped, dropping %s %s (%s)", evt.Table, evt.Event, evt.RowID)
		return
	}
	select {
	case b.events <- evt:
	default:
		utils.Logger.Warnf("eventbus: buffer full, dropping %s %s (%s)", evt.Table, evt.Event, evt.RowID)
	}
}

// Start runs the dispatch loop until Stop is called. ctx is handed to
// handlers only; cancelling it does not end dispatch, so events published
// while the server drains are still delivered.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for evt := range b.events {
			b.dispatch(ctx, evt)
		}
	}()
}

// Stop closes the queue and waits for the dispatch loop to drain it.
// Start must have been called.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		b.closeMu.Lock()
		b.closed = true
		close(b.events)
		b.closeMu.Unlock()
	})
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt ChangeEvent) {
	b.mu.RLock()
	subs := make([]namedHandler, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			utils.Logger.WithError(err).Warnf("eventbus: %s handler failed for %s %s", s.name, evt.Table, evt.Event)
		}
	}
}

// Matches reports whether evt passes a (table, event) subscription filter.
// An empty table or EventAny matches everything.
func Matches(evt ChangeEvent, table string, event EventType) bool {
	if table != "" && table != "*" && table != evt.Table {
		return false
	}
	return event == "" || event == EventAny || event == evt.Event
}

// Nop discards events. Useful for CLI paths and tests.
type Nop struct{}

func (Nop) Publish(context.Context, ChangeEvent) {}
