package handlers

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moco-web/internal/events"
)

// streamSink collects what the SSE loop writes and can be switched into a
// failing state to simulate the client dropping the connection.
type streamSink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	broken bool
}

func (s *streamSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return 0, io.ErrClosedPipe
	}
	return s.buf.Write(p)
}

func (s *streamSink) disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = true
}

func (s *streamSink) contents() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestEventsStreamDeliversRefreshAndUnsubscribesOnDisconnect(t *testing.T) {
	bus := events.NewBroadcaster()
	handler := NewEventsHandler(bus)
	handler.keepaliveInterval = time.Hour // keepalives out of the way

	sink := &streamSink{}
	done := make(chan struct{})
	go func() {
		handler.stream(bufio.NewWriter(sink))
		close(done)
	}()

	require.Eventually(t, func() bool {
		return bus.ListenerCount(events.TopicImageUploaded) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Emit(events.TopicImageUploaded)
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(sink.contents()), []byte("event: refresh\ndata: {}\n\n"))
	}, time.Second, 5*time.Millisecond)

	// Drop the client; the next flush fails and the loop must remove its
	// subscription rather than keep it registered forever.
	sink.disconnect()
	bus.Emit(events.TopicImageUploaded)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream loop did not exit after the client disconnected")
	}
	assert.Equal(t, 0, bus.ListenerCount(events.TopicImageUploaded))

	// Emitting after teardown reaches nobody.
	bus.Emit(events.TopicImageUploaded)
	assert.Equal(t, 0, bus.ListenerCount(events.TopicImageUploaded))
}

func TestEventsStreamSendsKeepaliveComments(t *testing.T) {
	bus := events.NewBroadcaster()
	handler := NewEventsHandler(bus)
	handler.keepaliveInterval = 5 * time.Millisecond

	sink := &streamSink{}
	done := make(chan struct{})
	go func() {
		handler.stream(bufio.NewWriter(sink))
		close(done)
	}()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(sink.contents()), []byte(": keepalive\n\n"))
	}, time.Second, 5*time.Millisecond)

	sink.disconnect()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream loop did not exit after the client disconnected")
	}
}
