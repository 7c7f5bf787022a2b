// Package events provides the in-process event bus that connects the
// browser state, the upload queue, and the presentation layer.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType identifies the kind of an event.
type EventType string

const (
	// EventSessionInvalidated fires when the bearer credential is
	// cleared, either by an explicit logout or by an authorization
	// failure intercepted at the gateway. Subscribers should drop any
	// authenticated state and stop background work.
	EventSessionInvalidated EventType = "session_invalidated"

	// Listing events published by the browser.
	EventListingChanged EventType = "listing_changed"
	EventListingLoading EventType = "listing_loading"
	EventListingError   EventType = "listing_error"

	// Upload queue events.
	EventUploadQueued    EventType = "upload_queued"
	EventUploadStarted   EventType = "upload_started"
	EventUploadProgress  EventType = "upload_progress"
	EventUploadCompleted EventType = "upload_completed"
	EventUploadFailed    EventType = "upload_failed"

	// EventNotification fires for each new entry seen by the
	// notification poller.
	EventNotification EventType = "notification"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides the common event fields.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// SessionInvalidatedEvent reports why the session was cleared.
type SessionInvalidatedEvent struct {
	BaseEvent
	Reason string // "logout" or "auth_failure"
}

// NewSessionInvalidatedEvent creates a SessionInvalidatedEvent.
func NewSessionInvalidatedEvent(reason string) *SessionInvalidatedEvent {
	return &SessionInvalidatedEvent{
		BaseEvent: BaseEvent{EventType: EventSessionInvalidated, Time: time.Now()},
		Reason:    reason,
	}
}

// UploadEvent reports an upload task transition or progress update.
type UploadEvent struct {
	BaseEvent
	TaskID   string
	BatchID  string
	Name     string
	Size     int64
	Progress float64 // 0.0 to 1.0
	Error    error   // set for EventUploadFailed
}

// NotificationEvent carries one feed entry observed by the poller.
type NotificationEvent struct {
	BaseEvent
	ID      string
	Title   string
	Message string
	Kind    string
}

// EventBus manages event subscriptions and publishing. Publishing never
// blocks: events for subscribers with a full buffer are dropped and
// counted.
type EventBus struct {
	subscribers map[EventType][]chan Event
	all         []chan Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

const defaultBufferSize = 256

// NewEventBus creates an event bus with the given per-subscriber buffer.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to every event type.
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish delivers the event to all matching subscribers without
// blocking the publisher.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
}

// DroppedEvents returns the number of events dropped due to full
// subscriber buffers.
func (eb *EventBus) DroppedEvents() int64 {
	return eb.dropped.Load()
}

// Close shuts the bus down and closes all subscriber channels.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, chans := range eb.subscribers {
		for _, ch := range chans {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
	eb.subscribers = make(map[EventType][]chan Event)
	eb.all = nil
}
