package sqlstore

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// SaveEvent appends an audit event.
func (s *Store) SaveEvent(ctx context.Context, event models.Event) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO events (id, group_id, actor_id, kind, subject_id, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		event.ID, event.GroupID, event.ActorID, event.Kind, event.SubjectID, event.Summary, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEventsByGroups returns the most recent events of the given groups.
func (s *Store) ListEventsByGroups(ctx context.Context, groupIDs []string, limit int) ([]models.Event, error) {
	events := []models.Event{}
	if len(groupIDs) == 0 || limit <= 0 {
		return events, nil
	}

	placeholders, args := inClause(groupIDs)
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, group_id, actor_id, kind, subject_id, summary, created_at FROM events
		 WHERE group_id IN (`+placeholders+`) ORDER BY created_at DESC, id DESC LIMIT ?`),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.GroupID, &e.ActorID, &e.Kind, &e.SubjectID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
