package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case e, ok := <-sub.Channel():
		if !ok {
			t.Fatal("Subscription closed unexpectedly")
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}
	return Event{}
}

// TestBus_PublishSubscribe tests delivery to a topic subscriber
func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	sub, err := bus.Subscribe(context.Background(), TopicLinkRemoved)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	stamped, dropped := bus.Publish(Event{Topic: TopicLinkRemoved, Src: "B", Dst: "C"})
	if dropped != 0 {
		t.Errorf("Expected no drops, got %d", dropped)
	}

	got := receive(t, sub)
	if got.Src != "B" || got.Dst != "C" || got.Seq != stamped.Seq || got.Time.IsZero() {
		t.Errorf("Unexpected event %+v", got)
	}
}

// TestBus_TopicIsolation tests that subscribers only see their topics
func TestBus_TopicIsolation(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	flows, _ := bus.Subscribe(context.Background(), TopicFlowRerouted, TopicFlowRemoved)
	all, _ := bus.Subscribe(context.Background(), TopicAll)

	bus.Publish(Event{Topic: TopicLinkAdded})
	bus.Publish(Event{Topic: TopicFlowRemoved, FlowID: "f1"})

	if e := receive(t, flows); e.Topic != TopicFlowRemoved {
		t.Errorf("Expected flow.removed, got %s", e.Topic)
	}
	if e := receive(t, all); e.Topic != TopicLinkAdded {
		t.Errorf("Expected link.added first, got %s", e.Topic)
	}
	if e := receive(t, all); e.Topic != TopicFlowRemoved {
		t.Errorf("Expected flow.removed second, got %s", e.Topic)
	}
}

// TestBus_SequenceIncreases tests monotonically increasing sequence numbers
func TestBus_SequenceIncreases(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	first, _ := bus.Publish(Event{Topic: TopicSwitchAdded})
	second, _ := bus.Publish(Event{Topic: TopicSwitchAdded})
	if second.Seq <= first.Seq {
		t.Errorf("Expected increasing sequence, got %d then %d", first.Seq, second.Seq)
	}
}

// TestBus_FullBufferDrops tests that slow subscribers miss events
func TestBus_FullBufferDrops(t *testing.T) {
	bus := NewBus(2)
	defer bus.Shutdown()

	bus.Subscribe(context.Background(), TopicFlowAdmitted)

	total := 0
	for i := 0; i < 5; i++ {
		_, dropped := bus.Publish(Event{Topic: TopicFlowAdmitted})
		total += dropped
	}
	if total != 3 {
		t.Errorf("Expected 3 dropped events, got %d", total)
	}
}

// TestBus_ContextCancellation tests that cancelling removes the subscription
func TestBus_ContextCancellation(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub, _ := bus.Subscribe(ctx, TopicLinkAdded)
	cancel()

	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("Subscription did not close after cancel")
	}
	if n := bus.SubscriberCount(TopicLinkAdded); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}
}

// TestBus_Shutdown tests that shutdown closes subscriptions and rejects new ones
func TestBus_Shutdown(t *testing.T) {
	bus := NewBus(0)
	sub, _ := bus.Subscribe(context.Background())

	bus.Shutdown()
	bus.Shutdown()

	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected closed channel after shutdown")
	}
	if _, err := bus.Subscribe(context.Background(), TopicLinkAdded); err != ErrBusClosed {
		t.Errorf("Expected ErrBusClosed, got %v", err)
	}
	bus.Publish(Event{Topic: TopicLinkAdded})
}

// TestBus_ConcurrentPublish tests publishing from many goroutines
func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(1000)
	defer bus.Shutdown()

	sub, _ := bus.Subscribe(context.Background(), TopicFlowAdmitted)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(Event{Topic: TopicFlowAdmitted})
			}
		}()
	}
	wg.Wait()

	if n := len(sub.Channel()); n != 500 {
		t.Errorf("Expected 500 buffered events, got %d", n)
	}
}
