// Package audit records group mutations asynchronously so request handlers
// never wait on the event log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// Saver persists events.
type Saver interface {
	SaveEvent(ctx context.Context, event models.Event) error
}

// Recorder accepts events for recording.
type Recorder interface {
	Record(event models.Event)
}

type Option func(*models.Event)

func WithSubject(id string) Option {
	return func(e *models.Event) {
		e.SubjectID = id
	}
}

func WithSummary(summary string) Option {
	return func(e *models.Event) {
		e.Summary = summary
	}
}

// NewEvent builds an event of the given kind for a group.
func NewEvent(groupID, actorID, kind string, opts ...Option) models.Event {
	e := models.Event{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		ActorID:   actorID,
		Kind:      kind,
		CreatedAt: time.Now().Unix(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Discard drops every event.
type Discard struct{}

func (Discard) Record(models.Event) {}
