package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"planner/internal/logger"
	"planner/internal/middleware"
	"planner/internal/models/user"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON enforces the JSON content type and decodes the body into dst.
// On failure the response has been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("request_id", middleware.GetRequestID(r.Context())))

		responseWithError(w, http.StatusUnsupportedMediaType, codeUnsupportedMedia, "Content-Type must be application/json")
		return false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("HTTP: Request body too large",
				zap.Int64("limit", tooLarge.Limit),
				zap.String("request_id", middleware.GetRequestID(r.Context())))

			responseWithError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
				fmt.Sprintf("Request body must not exceed %d bytes", maxBodyBytes))
			return false
		}

		logger.Warn("HTTP: Malformed JSON",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(r.Context())))

		responseWithError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("Malformed request body: %v", err))
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		logger.Warn("HTTP: Invalid id",
			zap.String("id", chi.URLParam(r, "id")),
			zap.String("request_id", middleware.GetRequestID(r.Context())))

		responseWithError(w, http.StatusBadRequest, codeBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the caller placed in the context by the auth gate.
// Handlers behind the gate always have one; a miss is a wiring bug.
func currentUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		logger.Error("HTTP: Handler reached without an authenticated user", nil,
			zap.String("path", r.URL.Path))
		responseWithError(w, http.StatusInternalServerError, codeInternal, internalErrorResponse)
		return nil, false
	}
	return caller, true
}
