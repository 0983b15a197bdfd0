package directory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Harmony-Global/harmony-admin/internal"
	"github.com/Harmony-Global/harmony-admin/internal/transport"
	"github.com/Harmony-Global/harmony-admin/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context) []UserSummary
	GetUser(ctx context.Context, id int64) (*UserDetail, Source, error)
	SetStatus(ctx context.Context, id int64, detail *UserDetail, status UserStatus) UserDetail
	Stats(ctx context.Context) Stats
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

// ListUsers handles GET /users with filter and pagination query parameters.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := ParseListQuery(r.URL.Query())

	all := h.Service.ListUsers(r.Context())
	filtered := ApplyFilters(all, query.Filters)

	// clamp the requested page into [1, pageCount]; the engine itself
	// returns an empty page for out-of-range input
	_, pageCount := Paginate(filtered, query.PageSize, 1)
	page := query.Page
	if pageCount > 0 && page > pageCount {
		page = pageCount
	}

	pageItems, pageCount := Paginate(filtered, query.PageSize, page)

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Data:         pageItems,
		Page:         page,
		PageSize:     query.PageSize,
		PageCount:    pageCount,
		Total:        len(filtered),
		ActiveFilter: query.Filters.ActiveField(),
	})
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	detail, source, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		if appErr, isApp := internal.IsAppError(err); isApp {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.Logger.Error("GetUser: unexpected error", "user_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{Data: detail, Source: source})
}

// BlacklistUser handles PATCH /users/{id}/blacklist.
func (h *Handler) BlacklistUser(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, StatusBlacklisted)
}

// ActivateUser handles PATCH /users/{id}/activate.
func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, StatusActive)
}

// GetStats handles GET /users/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Stats(r.Context()))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, status UserStatus) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	detail, _, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		if appErr, isApp := internal.IsAppError(err); isApp {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.Logger.Error("updateStatus: resolve failed", "user_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated := h.Service.SetStatus(r.Context(), id, detail, status)
	h.WriteJSON(w, http.StatusOK, DetailResponse{Data: &updated, Source: SourceLocal})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}
