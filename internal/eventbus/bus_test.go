package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewWithConfig(1, 10)
	defer b.Close(context.Background())

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})

	b.Subscribe(EventTypeUpdate, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		close(done)
	})

	id := uuid.New()
	b.Publish(Event{Type: EventTypeUpdate, RType: "light", ID: id})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].ID != id || got[0].RType != "light" {
		t.Errorf("got events %+v", got)
	}
}

func TestSubscribeAll(t *testing.T) {
	b := NewWithConfig(1, 10)
	defer b.Close(context.Background())

	var wg sync.WaitGroup
	wg.Add(3)
	b.SubscribeAll(func(Event) { wg.Done() })

	b.Publish(Event{Type: EventTypeAdd})
	b.Publish(Event{Type: EventTypeUpdate})
	b.Publish(Event{Type: EventTypeDelete})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all event types were delivered")
	}
}

func TestPublishAfterClose_DoesNotPanic(t *testing.T) {
	b := NewWithConfig(1, 1)
	b.Subscribe(EventTypeUpdate, func(Event) {})
	b.Close(context.Background())

	// Must be a silent drop
	b.Publish(Event{Type: EventTypeUpdate})
}

func TestHandlerPanicIsContained(t *testing.T) {
	b := NewWithConfig(1, 10)
	defer b.Close(context.Background())

	done := make(chan struct{})
	b.Subscribe(EventTypeAdd, func(Event) { panic("boom") })
	b.Subscribe(EventTypeUpdate, func(Event) { close(done) })

	b.Publish(Event{Type: EventTypeAdd})
	b.Publish(Event{Type: EventTypeUpdate})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after handler panic")
	}
}
