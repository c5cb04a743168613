package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"moco-web/internal/events"
)

type EventsHandler struct {
	bus *events.Broadcaster

	// keepaliveInterval is shortened in tests.
	keepaliveInterval time.Duration
}

func NewEventsHandler(bus *events.Broadcaster) *EventsHandler {
	return &EventsHandler{
		bus:               bus,
		keepaliveInterval: 15 * time.Second,
	}
}

// @Summary Image event stream
// @Description Server-sent events; one "refresh" event per registered upload
// @Tags image
// @Produce text/event-stream
// @Router /api/events/images [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(h.stream))
	return nil
}

// stream is the SSE body loop. It holds exactly one subscription for the
// writer's lifetime and drops it when a flush fails, which is how a client
// disconnect surfaces here.
func (h *EventsHandler) stream(w *bufio.Writer) {
	notify := make(chan struct{}, 1)
	sub := h.bus.Subscribe(events.TopicImageUploaded, func() {
		// Coalesce bursts; the client re-fetches the whole list anyway.
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer h.bus.Unsubscribe(sub)

	keepalive := time.NewTicker(h.keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-notify:
			fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
		}

		// A failed flush means the client went away; drop the
		// subscription instead of invoking it forever.
		if err := w.Flush(); err != nil {
			return
		}
	}
}
