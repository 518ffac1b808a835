package handlers

import (
	"net/http"

	"planner/internal/handlers/dto"
	"planner/internal/models/event"
)

type EventHandler struct {
	EventService EventService
}

func NewEventHandler(eventService EventService) EventHandler {
	return EventHandler{
		EventService: eventService,
	}
}

func (h *EventHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.CreateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.EventService.CreateEvent(r.Context(), caller.Username, request.Title, request.Description, request.EventDate)
	if err != nil {
		handleError(w, r, err, "create_event")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEvent(created))
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	events, err := h.EventService.ListEvents(r.Context(), caller.Username)
	if err != nil {
		handleError(w, r, err, "list_events")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEventList(events))
}

func (h *EventHandler) UpdateEventByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.EventService.UpdateEvent(r.Context(), caller.Username, id,
		event.WithTitle(request.Title),
		event.WithDescription(request.Description),
		event.WithEventDate(request.EventDate),
	)
	if err != nil {
		handleError(w, r, err, "update_event")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEvent(updated))
}

func (h *EventHandler) DeleteEventByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.EventService.DeleteEvent(r.Context(), caller.Username, id); err != nil {
		handleError(w, r, err, "delete_event")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("message", "Event deleted successfully"))
}
