package handlers

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"planner/internal/handlers/dto"
	"planner/internal/logger"
	"planner/internal/service"
	"planner/internal/summarizer"
)

//go:embed static/index.html
var homePage []byte

func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(homePage)
}

// Summarize reads ?text=, falling back to a JSON body.
func Summarize(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	text := r.URL.Query().Get("text")
	if text == "" && checkContentType(r, "application/json") {
		var request dto.SummarizeRequest
		if !decodeJSON(w, r, &request) {
			return
		}
		text = request.Text
	}
	if text == "" {
		handleError(w, r, service.NewValidationError("text", "is required"), "summarize")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("summary", summarizer.Summarize(text)))
}

const healthTimeout = 2 * time.Second

// Health reports 503 when check fails; a nil check always reports ok.
func Health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			if err := check(ctx); err != nil {
				logger.Error("HTTP: Health check failed", err)
				responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
				return
			}
		}
		responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
	}
}
