package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planner/internal/logger"
	"planner/internal/models/event"
	"planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, owner, title string, description *string, date event.Date) (*event.Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if date.IsZero() {
		return nil, NewValidationError("event_date", "is required")
	}

	newEvent := &event.Event{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		EventDate:   date,
		Owner:       owner,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, newEvent); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	logger.Info("Service: Event created",
		zap.String("event_id", newEvent.ID.String()),
		zap.String("owner", owner),
		zap.Stringer("event_date", date),
	)
	return newEvent, nil
}

// ListEvents returns the caller's events ordered by date.
func (s *EventService) ListEvents(ctx context.Context, owner string) ([]*event.Event, error) {
	events, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, owner string, id uuid.UUID, options ...event.EventOption) (*event.Event, error) {
	updated, err := s.repo.Update(ctx, id, func(e *event.Event) error {
		if e.Owner != owner {
			return NewForbidden(ResourceEvent, id.String())
		}
		event.Apply(e, options...)
		if strings.TrimSpace(e.Title) == "" {
			return NewValidationError("title", "must not be empty")
		}
		touch(&e.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.mapError("update", id, err)
	}

	logger.Info("Service: Event updated", zap.String("event_id", id.String()))
	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, owner string, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, func(e *event.Event) error {
		if e.Owner != owner {
			return NewForbidden(ResourceEvent, id.String())
		}
		return nil
	})
	if err != nil {
		return s.mapError("delete", id, err)
	}

	logger.Info("Service: Event deleted", zap.String("event_id", id.String()))
	return nil
}

func (s *EventService) mapError(action string, id uuid.UUID, err error) error {
	if busErr, ok := AsBusinessError(err); ok {
		if busErr.Code == CodeForbidden {
			logger.Warn("Service: Foreign event access refused", zap.String("event_id", id.String()))
		}
		return busErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFound(ResourceEvent, id.String())
	}
	return fmt.Errorf("%s event %s: %w", action, id, err)
}
