package events

import (
	"testing"
	"time"
)

func TestSubscribeReceivesMatchingType(t *testing.T) {
	eb := NewEventBus(10)
	ch := eb.Subscribe(EventSessionInvalidated)

	eb.Publish(NewSessionInvalidatedEvent("logout"))

	select {
	case ev := <-ch:
		inv, ok := ev.(*SessionInvalidatedEvent)
		if !ok {
			t.Fatalf("got %T, want *SessionInvalidatedEvent", ev)
		}
		if inv.Reason != "logout" {
			t.Errorf("Reason = %q, want %q", inv.Reason, "logout")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeIgnoresOtherTypes(t *testing.T) {
	eb := NewEventBus(10)
	ch := eb.Subscribe(EventListingChanged)

	eb.Publish(NewSessionInvalidatedEvent("auth_failure"))

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev.Type())
	default:
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	eb := NewEventBus(10)
	ch := eb.SubscribeAll()

	eb.Publish(NewSessionInvalidatedEvent("logout"))
	eb.Publish(&UploadEvent{BaseEvent: BaseEvent{EventType: EventUploadQueued, Time: time.Now()}})

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	eb := NewEventBus(1)
	eb.Subscribe(EventSessionInvalidated)

	eb.Publish(NewSessionInvalidatedEvent("logout"))
	eb.Publish(NewSessionInvalidatedEvent("logout"))

	if got := eb.DroppedEvents(); got != 1 {
		t.Errorf("DroppedEvents = %d, want 1", got)
	}
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	eb := NewEventBus(10)
	ch := eb.Subscribe(EventListingChanged)
	eb.Close()

	if _, open := <-ch; open {
		t.Error("channel still open after Close")
	}

	// Publishing after close must not panic.
	eb.Publish(NewSessionInvalidatedEvent("logout"))
}
