package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"planner/internal/logger"
	"planner/internal/models/user"
	"planner/internal/service"

	"go.uber.org/zap"
)

const userKey contextKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*user.User, error)
}

// Authenticate resolves the bearer token on every request and stores the
// caller in the request context. Requests without a valid token never reach
// next.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthenticated(w, r, "Not authenticated")
				return
			}

			caller, err := auth.Authenticate(r.Context(), rawToken)
			if err != nil {
				if busErr, ok := service.AsBusinessError(err); ok && busErr.Code == service.CodeUnauthenticated {
					unauthenticated(w, r, busErr.Message)
					return
				}
				logger.Error("HTTP: Authentication backend failed", err,
					zap.String("request_id", GetRequestID(r.Context())))
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":   "INTERNAL_ERROR",
					"message": "Internal server error",
				})
				return
			}

			ctx := context.WithValue(r.Context(), userKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the caller stored by Authenticate.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	caller, ok := ctx.Value(userKey).(*user.User)
	return caller, ok && caller != nil
}

// WithUser stores caller the same way Authenticate does.
func WithUser(ctx context.Context, caller *user.User) context.Context {
	return context.WithValue(ctx, userKey, caller)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	logger.Warn("HTTP: Unauthenticated request",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
	)
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"error":   service.CodeUnauthenticated,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
