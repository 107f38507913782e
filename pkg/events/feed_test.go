package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// TestFrameRoundTrip tests frame encoding with topic prefix
func TestFrameRoundTrip(t *testing.T) {
	e := Event{Seq: 7, Topic: TopicFlowRerouted, FlowID: "flow-A-C-0", Path: []string{"A", "B", "D", "C"}}

	frame, err := EncodeFrame(e)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if string(frame[:len(TopicFlowRerouted)]) != string(TopicFlowRerouted) {
		t.Errorf("Expected topic prefix, got %q", frame[:len(TopicFlowRerouted)])
	}

	got, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if got.Seq != 7 || got.FlowID != e.FlowID || len(got.Path) != 4 {
		t.Errorf("Unexpected decoded event %+v", got)
	}
}

// TestDecodeFrame_Malformed tests rejection of damaged frames
func TestDecodeFrame_Malformed(t *testing.T) {
	for _, frame := range [][]byte{
		[]byte("no-separator"),
		append([]byte("link.added\x00"), 0xff, 0xfe),
	} {
		if _, err := DecodeFrame(frame); !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("frame %q: expected ErrMalformedFrame, got %v", frame, err)
		}
	}
}

// TestFeed_ForwardsBusEvents tests bus events reaching a remote reader
func TestFeed_ForwardsBusEvents(t *testing.T) {
	addr := fmt.Sprintf("inproc://feed-%d", time.Now().UnixNano())
	feed, err := NewFeed(addr)
	if err != nil {
		t.Fatalf("NewFeed failed: %v", err)
	}
	defer feed.Close()

	reader, err := DialFeed(addr, 100*time.Millisecond, TopicLinkRemoved)
	if err != nil {
		t.Fatalf("DialFeed failed: %v", err)
	}
	defer reader.Close()

	bus := NewBus(0)
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Forward(ctx, bus, nil)

	// PUB/SUB drops messages published before the pipe is attached, so keep
	// publishing until one arrives.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		bus.Publish(Event{Topic: TopicLinkAdded, Src: "X", Dst: "Y"})
		bus.Publish(Event{Topic: TopicLinkRemoved, Src: "B", Dst: "C"})

		got, err := reader.Recv()
		if err != nil {
			continue
		}
		if got.Topic != TopicLinkRemoved || got.Src != "B" || got.Dst != "C" {
			t.Fatalf("Expected only link.removed events, got %+v", got)
		}
		return
	}
	t.Fatal("No event received from feed")
}
