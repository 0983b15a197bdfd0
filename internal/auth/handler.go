package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Harmony-Global/harmony-admin/internal"
	"github.com/Harmony-Global/harmony-admin/internal/transport"
	"github.com/Harmony-Global/harmony-admin/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) LoginResult
	Logout(ctx context.Context)
	Authenticate(token string) error
	CurrentSession() *Session
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Login handles POST /auth/login. The structured result body is returned on
// both success and failure; a failed check maps to 401 for clients that key
// off the status code.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.Service.Login(r.Context(), dto)
	if !result.Status {
		h.WriteJSON(w, http.StatusUnauthorized, result)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me, exposing the current session to the view layer.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := h.Service.CurrentSession()
	if session == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, session)
}

// AuthMiddleware gates routes on the bearer token matching the held session.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		if err := h.Service.Authenticate(token); err != nil {
			h.Logger.Warn("token rejected")
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		session := h.Service.CurrentSession()
		if session != nil {
			ctx := internal.ContextWithSessionEmail(r.Context(), session.Email)
			ctx = logger.With(ctx, "sessionEmail", session.Email)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
