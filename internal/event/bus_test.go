package event

import "testing"

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBus()
	var got TickCompleted
	calls := 0
	Subscribe(b, func(e TickCompleted) {
		got = e
		calls++
	})

	Publish(b, TickCompleted{Manual: true, Now: 42})

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if !got.Manual || got.Now != 42 {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	b := NewBus()
	Publish(b, TickCompleted{Manual: true}) // must not panic
}

func TestSubscribersOnlyReceiveTheirType(t *testing.T) {
	b := NewBus()
	tickCalls, otherCalls := 0, 0
	Subscribe(b, func(e TickCompleted) { tickCalls++ })

	type otherEvent struct{}
	Subscribe(b, func(e otherEvent) { otherCalls++ })

	Publish(b, TickCompleted{})
	if tickCalls != 1 || otherCalls != 0 {
		t.Fatalf("expected only TickCompleted handler to fire, got tick=%d other=%d", tickCalls, otherCalls)
	}
}
