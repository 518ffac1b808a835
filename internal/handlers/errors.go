package handlers

import (
	"net/http"

	"planner/internal/logger"
	"planner/internal/middleware"
	"planner/internal/service"

	"go.uber.org/zap"
)

const (
	codeInternal          = "INTERNAL_ERROR"
	codeBadRequest        = "BAD_REQUEST"
	codeUnsupportedMedia  = "UNSUPPORTED_MEDIA_TYPE"
	codePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	internalErrorResponse = "Internal server error"
)

// handleError writes business errors with their mapped status and anything
// else as an opaque 500; the cause of a 500 only goes to the log.
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	requestId := middleware.GetRequestID(r.Context())

	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		logger.Error("HTTP: Service error", err,
			zap.String("operation", operation),
			zap.String("request_id", requestId))
		responseWithError(w, http.StatusInternalServerError, codeInternal, internalErrorResponse)
		return
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Business error",
		zap.String("operation", operation),
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode),
		zap.String("request_id", requestId))

	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeDuplicateUsername:
		return http.StatusBadRequest
	case service.CodeInvalidCredentials, service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
