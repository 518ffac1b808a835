package dto

import (
	"planner/internal/models/event"
	"planner/internal/models/task"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTaskRequest fields left nil are kept as stored.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	EventDate   event.Date `json:"event_date"`
}

type UpdateEventRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	EventDate   *event.Date `json:"event_date,omitempty"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Owner       string  `json:"owner"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Owner:       t.Owner,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type EventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	EventDate   event.Date `json:"event_date"`
	Owner       string     `json:"owner"`
}

func FromEvent(e *event.Event) EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		Owner:       e.Owner,
	}
}

func FromEventList(events []*event.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = FromEvent(e)
	}
	return result
}
