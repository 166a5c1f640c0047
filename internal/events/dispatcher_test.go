package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []string
	dispatcher.Subscribe(EventPostCreated, func(_ context.Context, event Event) error {
		got = append(got, event.ID)
		return nil
	})

	for _, id := range []string{"a", "b", "c"} {
		if err := dispatcher.Publish(context.Background(), Event{ID: id, Type: EventPostCreated}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("delivery order = %v, want [a b c]", got)
	}
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	reached := false
	dispatcher.Subscribe(EventPostEscalated, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventPostEscalated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventPostEscalated}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !reached {
		t.Fatal("second handler not invoked after first failed")
	}
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventPostCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventVoteCast}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if called {
		t.Fatal("handler invoked for a type it never subscribed to")
	}
}
