package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/event"
	repo "planner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const eventColumns = `id, title, description, event_date, owner, created_at, updated_at`

type EventStorage struct {
	pool *pgxpool.Pool
}

func scanEvent(row pgx.Row) (*event.Event, error) {
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
	e.EventDate = event.DateOf(date)
	return e, err
}

func (s *EventStorage) Create(ctx context.Context, eventToCreate *event.Event) error {
	defer observe("events.create", time.Now())

	query := `INSERT INTO events
				(id, title, description, event_date, owner, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
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
				WHERE owner = $1
				ORDER BY event_date, seq`

	rows, err := s.pool.Query(ctx, query, owner)
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
		logger.Error("Repository: Row iteration failed", err)
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *EventStorage) Update(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) (*event.Event, error) {
	defer observe("events.update", time.Now())

	var updated *event.Event
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		e, err := lockEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}

		query := `UPDATE events
				SET title = $1,
					description = $2,
					event_date = $3,
					updated_at = $4
				WHERE id = $5`

		if _, err := tx.Exec(ctx, query, e.Title, e.Description, e.EventDate.Time(), e.UpdatedAt, id); err != nil {
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

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		e, err := lockEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

func lockEvent(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	e, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to lock event", err, zap.String("event_id", id.String()))
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}
