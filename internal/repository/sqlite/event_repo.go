package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/event"
	repo "planner/internal/repository"

	"github.com/google/uuid"
)

const eventColumns = `id, title, description, event_date, owner, created_at, updated_at`

type EventStorage struct {
	db *sql.DB
}

func scanEvent(row rowScanner) (*event.Event, error) {
	e := &event.Event{}
	var date time.Time
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&date,
		&e.Owner,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	e.EventDate = event.DateOf(date.UTC())
	return e, err
}

func (s *EventStorage) Create(ctx context.Context, eventToCreate *event.Event) error {
	defer observe("events.create", time.Now())

	query := `INSERT INTO events
				(id, title, description, event_date, owner, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		eventToCreate.ID,
		eventToCreate.Title,
		eventToCreate.Description,
		eventToCreate.EventDate.Time(),
		eventToCreate.Owner,
		eventToCreate.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Failed to insert event", err)
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStorage) ListByOwner(ctx context.Context, owner string) ([]*event.Event, error) {
	defer observe("events.list", time.Now())

	query := `SELECT ` + eventColumns + `
				FROM events
				WHERE owner = ?
				ORDER BY event_date, seq`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		logger.Error("Repository: Failed to list events", err)
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*event.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *EventStorage) Update(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) (*event.Event, error) {
	defer observe("events.update", time.Now())

	var updated *event.Event
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		e, err := getEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}

		query := `UPDATE events
				SET title = ?,
					description = ?,
					event_date = ?,
					updated_at = ?
				WHERE id = ?`

		if _, err := tx.ExecContext(ctx, query, e.Title, e.Description, e.EventDate.Time(), e.UpdatedAt, id); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EventStorage) Delete(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) error {
	defer observe("events.delete", time.Now())

	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		e, err := getEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

func getEvent(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*event.Event, error) {
	e, err := scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to get event", err)
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}
