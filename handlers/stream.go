package handlers

import (
	"bufio"
	"catatin/live"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 15 * time.Second

// streamSnapshots serves a live subscription as server-sent events: one
// "snapshot" event with the current value, then one per change. The
// subscription is closed when the client goes away or the request's user
// context is cancelled.
func streamSnapshots[T any](c *fiber.Ctx, open func(ctx context.Context) (*live.Subscription[T], error)) error {
	ctx, cancel := context.WithCancel(c.UserContext())

	sub, err := open(ctx)
	if err != nil {
		cancel()
		return serverErrorWithDetails(c, "Failed to open stream", err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	topic := sub.Topic()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		if err := pump(w, sub, heartbeatInterval); err != nil {
			slog.Debug("event stream closed", "topic", topic, "error", err)
		}
	}))

	return nil
}

// pump writes snapshots until the subscription ends or a write fails.
func pump[T any](w *bufio.Writer, sub *live.Subscription[T], heartbeat time.Duration) error {
	if err := writeEvent(w, "snapshot", sub.Current()); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			if err := writeEvent(w, "snapshot", snapshot); err != nil {
				return err
			}
		case <-ticker.C:
			// SSE comment line, ignored by clients
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
