package handlers

import (
	"net/http"
	"time"

	"planner/internal/handlers/dto"
	"planner/internal/logger"
	"planner/internal/service"

	"go.uber.org/zap"
)

const tokenType = "bearer"

type AuthHandler struct {
	AuthService AuthService
}

func NewAuthHandler(authService AuthService) AuthHandler {
	return AuthHandler{
		AuthService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request dto.CredentialsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if _, err := h.AuthService.Register(r.Context(), request.Username, request.Password); err != nil {
		handleError(w, r, err, "register")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("msg", "User registered successfully"))
}

// Login takes an OAuth2 password form; a JSON body with the same fields is
// accepted too.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CredentialsRequest
	if checkContentType(r, "application/json") {
		if !decodeJSON(w, r, &request) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			responseWithError(w, http.StatusBadRequest, codeBadRequest, "Malformed form body")
			return
		}
		request.Username = r.PostForm.Get("username")
		request.Password = r.PostForm.Get("password")
	}

	if request.Username == "" {
		handleError(w, r, service.NewValidationError("username", "is required"), "login")
		return
	}
	if request.Password == "" {
		handleError(w, r, service.NewValidationError("password", "is required"), "login")
		return
	}

	accessToken, err := h.AuthService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		handleError(w, r, err, "login")
		return
	}

	logger.Info("HTTP: Token issued", zap.Duration("ms", time.Since(start)))
	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokenType,
	})
}

func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "You are authenticated"),
		toPayload("user", caller.Username),
	)
}
