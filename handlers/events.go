package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/biosecret/go-todo/apperror"
)

const (
	keepAliveInterval = 15 * time.Second
	keepAliveMsg      = ":keepalive\n\n"
	sseRetryMillis    = 15000
)

// formatSSEMessage renders data as one server-sent event of eventType.
func formatSSEMessage(eventType string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", eventType))
	sb.WriteString(fmt.Sprintf("retry: %d\n", sseRetryMillis))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", payload))
	return sb.String(), nil
}

// HandleTodoEvents streams the caller's todo changes as server-sent events
// until the client goes away or the server shuts down.
//
//	@Summary	Stream todo changes
//	@Tags		todos
//	@Produce	text/event-stream
//	@Security	BearerAuth
//	@Success	200
//	@Router		/todos/events [get]
func (h *Handler) HandleTodoEvents(c *fiber.Ctx, userID string) error {
	if h.Stream == nil {
		return apperror.NewInternalError("event stream is not configured", nil)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	sub := h.Stream.Subscribe(userID)
	log := h.logger().With(zap.String("user_id", userID))
	log.Debug("event stream opened")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		keepAliveTicker := time.NewTicker(keepAliveInterval)
		defer keepAliveTicker.Stop()
		defer h.Stream.Unsubscribe(sub)
		defer log.Debug("event stream closed")

		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				msg, err := formatSSEMessage(string(ev.Type), ev)
				if err != nil {
					log.Warn("failed to format event", zap.Error(err))
					continue
				}
				if _, err := w.WriteString(msg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAliveTicker.C:
				if _, err := w.WriteString(keepAliveMsg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
