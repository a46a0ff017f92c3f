package event

import "testing"

type testEvent struct {
	Base
	payload string
}

func newTestEvent(eventType, payload string) testEvent {
	return testEvent{Base: NewBase(eventType), payload: payload}
}

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe("validation.file", func(e Event) {
		got = append(got, e.(testEvent).payload)
	})

	bus.Publish(newTestEvent("validation.file", "a.md"))
	bus.Publish(newTestEvent("validation.summary", "ignored"))

	if len(got) != 1 || got[0] != "a.md" {
		t.Errorf("handler received %v, want [a.md]", got)
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewBus()

	var count int
	bus.SubscribeAll(func(Event) { count++ })

	bus.Publish(newTestEvent("validation.file", ""))
	bus.Publish(newTestEvent("watch.changed", ""))

	if count != 2 {
		t.Errorf("wildcard handler called %d times, want 2", count)
	}
}

func TestSpecificHandlersBeforeWildcard(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(Event) { order = append(order, "wildcard") })
	bus.Subscribe("x", func(Event) { order = append(order, "specific") })

	bus.Publish(newTestEvent("x", ""))

	if len(order) != 2 || order[0] != "specific" || order[1] != "wildcard" {
		t.Errorf("dispatch order = %v, want [specific wildcard]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	var count int
	id := bus.Subscribe("x", func(Event) { count++ })

	bus.Publish(newTestEvent("x", ""))
	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe returned false for live subscription")
	}
	bus.Publish(newTestEvent("x", ""))

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
	if bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return false for removed subscription")
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	var called bool
	bus.Subscribe("x", func(Event) { panic("boom") })
	bus.Subscribe("x", func(Event) { called = true })

	bus.Publish(newTestEvent("x", ""))

	if !called {
		t.Error("second handler should run despite first handler panicking")
	}
}
