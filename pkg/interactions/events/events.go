// Package events implements the framework's event bus: Log entries plus
// one *Executed event per interaction kind. Dispatch never blocks on
// concurrent Subscribe/Unsubscribe — each bus keeps a copy-on-write
// slice of subscribers so an in-flight Publish always iterates a
// consistent snapshot.
//
// Grounded on the teacher's internal/hooks/registry.go Register/
// Unregister-by-ID pattern, simplified from a priority-sorted map to a
// copy-on-write slice per bus (spec.md §5 requires in-flight dispatch
// isolation from concurrent add/remove, which a priority-sorted shared
// slice under a single mutex doesn't give for free).
package events

import (
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
)

// LogLevel mirrors slog's levels without requiring callers to import
// log/slog just to subscribe to Log events.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// LogEntry is one structured log line emitted by the framework.
type LogEntry struct {
	Level   LogLevel
	Message string
	Attrs   map[string]any
}

// HandlerFunc is a subscriber callback. Panics inside a HandlerFunc are
// recovered and logged; they never propagate to Publish's caller.
type HandlerFunc[T any] func(T)

type registration[T any] struct {
	id string
	fn HandlerFunc[T]
}

// Bus is a copy-on-write, named-subscriber event channel for one event
// payload type T.
type Bus[T any] struct {
	subs   atomic.Pointer[[]registration[T]]
	logger *slog.Logger
}

// NewBus creates an empty bus. logger receives a line for every recovered
// subscriber panic; nil defaults to slog.Default().
func NewBus[T any](logger *slog.Logger) *Bus[T] {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bus[T]{logger: logger.With("component", "events")}
	empty := make([]registration[T], 0)
	b.subs.Store(&empty)
	return b
}

// Subscribe registers fn and returns a func that removes it. Safe to call
// concurrently with Publish and with other Subscribe/unsubscribe calls.
func (b *Bus[T]) Subscribe(fn HandlerFunc[T]) (unsubscribe func()) {
	id := uuid.NewString()
	b.mutate(func(cur []registration[T]) []registration[T] {
		next := make([]registration[T], len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, registration[T]{id: id, fn: fn})
	})
	return func() { b.unsubscribe(id) }
}

func (b *Bus[T]) unsubscribe(id string) {
	b.mutate(func(cur []registration[T]) []registration[T] {
		next := make([]registration[T], 0, len(cur))
		for _, r := range cur {
			if r.id != id {
				next = append(next, r)
			}
		}
		return next
	})
}

// mutate performs a lock-free compare-and-swap rebuild of the subscriber
// slice, retrying if another Subscribe/unsubscribe raced it — the same
// copy-on-write swap pattern the framework uses for the module tree
// (pkg/interactions facade).
func (b *Bus[T]) mutate(rebuild func([]registration[T]) []registration[T]) {
	for {
		cur := b.subs.Load()
		next := rebuild(*cur)
		if b.subs.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// Publish delivers event to every current subscriber, in subscription
// order. A subscriber panic is recovered and logged; it never stops
// delivery to the remaining subscribers.
func (b *Bus[T]) Publish(event T) {
	subs := *b.subs.Load()
	for _, r := range subs {
		b.deliver(r.fn, event)
	}
}

func (b *Bus[T]) deliver(fn HandlerFunc[T], event T) {
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("event subscriber panicked",
				"panic", p,
				"stack", string(debug.Stack()))
		}
	}()
	fn(event)
}

// Count reports the current subscriber count.
func (b *Bus[T]) Count() int {
	return len(*b.subs.Load())
}
