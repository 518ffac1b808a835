package handlers

import (
	"net/http"

	"planner/internal/handlers/dto"
	"planner/internal/models/task"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), caller.Username, request.Title, request.Description)
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(created))
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), caller.Username, r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, r, err, "list_tasks")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), caller.Username, id,
		task.WithTitle(request.Title),
		task.WithDescription(request.Description),
	)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

// UpdateTaskStatus reads ?status=, falling back to a JSON body.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" && checkContentType(r, "application/json") {
		var request dto.UpdateStatusRequest
		if !decodeJSON(w, r, &request) {
			return
		}
		status = request.Status
	}

	updated, err := h.TaskService.UpdateTaskStatus(r.Context(), caller.Username, id, status)
	if err != nil {
		handleError(w, r, err, "update_task_status")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), caller.Username, id); err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("message", "Task deleted successfully"))
}
