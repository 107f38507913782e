package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// ErrMalformedFrame is returned for feed frames that cannot be decoded.
var ErrMalformedFrame = errors.New("malformed event frame")

// frameSeparator ends the topic prefix of a feed frame. SUB sockets filter
// on byte prefixes, so a topic subscription is the topic plus separator.
const frameSeparator = 0

// EncodeFrame builds a feed frame: topic, separator, snappy-compressed JSON.
func EncodeFrame(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	compressed := snappy.Encode(nil, payload)

	frame := make([]byte, 0, len(e.Topic)+1+len(compressed))
	frame = append(frame, string(e.Topic)...)
	frame = append(frame, frameSeparator)
	return append(frame, compressed...), nil
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(frame []byte) (Event, error) {
	idx := bytes.IndexByte(frame, frameSeparator)
	if idx < 0 {
		return Event{}, ErrMalformedFrame
	}
	payload, err := snappy.Decode(nil, frame[idx+1:])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if string(e.Topic) != string(frame[:idx]) {
		return Event{}, fmt.Errorf("%w: topic prefix %q does not match payload %q", ErrMalformedFrame, frame[:idx], e.Topic)
	}
	return e, nil
}

// Feed republishes bus events on a mangos PUB socket so processes outside
// the controller can follow control-plane changes.
type Feed struct {
	sock mangos.Socket
	addr string
}

// NewFeed creates a PUB socket listening on addr (for example
// "tcp://127.0.0.1:7400" or "inproc://events").
func NewFeed(addr string) (*Feed, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", addr, err)
	}
	return &Feed{sock: sock, addr: addr}, nil
}

// Addr returns the address the feed listens on.
func (f *Feed) Addr() string {
	return f.addr
}

// Send publishes one event frame.
func (f *Feed) Send(e Event) error {
	frame, err := EncodeFrame(e)
	if err != nil {
		return err
	}
	return f.sock.Send(frame)
}

// Forward copies every event from the bus to the socket until ctx is done
// or the bus shuts down. onError, when set, receives send failures.
func (f *Feed) Forward(ctx context.Context, bus *Bus, onError func(error)) error {
	subscription, err := bus.Subscribe(ctx, TopicAll)
	if err != nil {
		return err
	}
	for e := range subscription.Channel() {
		if err := f.Send(e); err != nil && onError != nil {
			onError(err)
		}
	}
	return ctx.Err()
}

// Close closes the socket.
func (f *Feed) Close() error {
	return f.sock.Close()
}

// FeedReader receives events from a Feed.
type FeedReader struct {
	sock mangos.Socket
}

// DialFeed connects a SUB socket to a feed. With no topics every event is
// received.
func DialFeed(addr string, recvTimeout time.Duration, topics ...Topic) (*FeedReader, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}

	prefixes := [][]byte{{}}
	if len(topics) > 0 {
		prefixes = prefixes[:0]
		for _, topic := range topics {
			prefixes = append(prefixes, append([]byte(topic), frameSeparator))
		}
	}
	for _, prefix := range prefixes {
		if err := sock.SetOption(mangos.OptionSubscribe, prefix); err != nil {
			sock.Close()
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
	}
	if recvTimeout > 0 {
		if err := sock.SetOption(mangos.OptionRecvDeadline, recvTimeout); err != nil {
			sock.Close()
			return nil, fmt.Errorf("failed to set receive deadline: %w", err)
		}
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &FeedReader{sock: sock}, nil
}

// Recv blocks until the next event arrives or the receive deadline passes.
func (r *FeedReader) Recv() (Event, error) {
	frame, err := r.sock.Recv()
	if err != nil {
		return Event{}, err
	}
	return DecodeFrame(frame)
}

// Close closes the socket.
func (r *FeedReader) Close() error {
	return r.sock.Close()
}
