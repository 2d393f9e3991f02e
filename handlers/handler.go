// Package handlers implements the HTTP handlers of the todo API.
package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/models"
)

// UserStore persists credentials.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// TodoStore persists todos. Every method is scoped by the owning user id.
type TodoStore interface {
	List(ctx context.Context, userID string) ([]models.Todo, error)
	Get(ctx context.Context, userID, id string) (models.Todo, error)
	Create(ctx context.Context, todo models.Todo) error
	Update(ctx context.Context, userID, id string, update models.TodoUpdate, now time.Time) (models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler carries the dependencies of every endpoint.
type Handler struct {
	Users  UserStore
	Todos  TodoStore
	Tokens TokenIssuer
	// Events receives todo changes after they are committed. Optional.
	Events events.Publisher
	// Stream feeds GET /api/todos/events. Optional.
	Stream *events.Broker
	// DB is pinged by the health check. Optional.
	DB  Pinger
	Log *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *Handler) logger() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return zap.NewNop()
}

// publish hands e to the event publisher. Failures are logged only.
func (h *Handler) publish(ctx context.Context, e events.Event) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(ctx, e); err != nil {
		h.logger().Warn("failed to publish todo event",
			zap.String("type", string(e.Type)),
			zap.String("todo_id", e.TodoID),
			zap.Error(err),
		)
	}
}
