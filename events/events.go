// Package events distributes todo change notifications to live subscribers
// (server-sent events) and, optionally, to an MQTT broker.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/biosecret/go-todo/models"
)

// Type names a todo change.
type Type string

const (
	TodoCreated Type = "todo.created"
	TodoUpdated Type = "todo.updated"
	TodoDeleted Type = "todo.deleted"
)

// Event describes one committed change to a todo. Todo is nil for deletions.
type Event struct {
	Type   Type         `json:"type"`
	UserID string       `json:"-"`
	TodoID string       `json:"todo_id"`
	Todo   *models.Todo `json:"todo,omitempty"`
	At     time.Time    `json:"at"`
}

// Publisher delivers events. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Publishers fans an event out to every publisher and joins their errors.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range ps {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
