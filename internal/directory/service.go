package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Harmony-Global/harmony-admin/internal"
	"github.com/Harmony-Global/harmony-admin/internal/storage"
)

// Source tells a caller whether a detail record came from the network or
// from the local snapshot store. The network always wins when available.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
	SourceLocal   Source = "local"
)

// Gateway is the outbound fetch dependency.
type Gateway interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Endpoints are the fixed upstream document URLs.
type Endpoints struct {
	UsersURL       string
	UserDetailsURL string
}

// Service resolves the user directory against the upstream documents,
// mirroring detail records into the local snapshot store.
type Service struct {
	gateway   Gateway
	store     storage.Store
	endpoints Endpoints
	logger    *slog.Logger
}

func NewService(gw Gateway, store storage.Store, endpoints Endpoints, logger *slog.Logger) *Service {
	return &Service{
		gateway:   gw,
		store:     store,
		endpoints: endpoints,
		logger:    logger,
	}
}

// ListUsers fetches the full user list. Any upstream failure degrades to an
// empty list; the listing view shows no users rather than an error.
func (s *Service) ListUsers(ctx context.Context) []UserSummary {
	var doc userListDocument
	if err := s.gateway.GetJSON(ctx, s.endpoints.UsersURL, &doc); err != nil {
		s.logger.Error("failed to fetch user list", "error", err)
		return []UserSummary{}
	}

	if doc.Data == nil {
		return []UserSummary{}
	}
	return doc.Data
}

// GetUser resolves a single user's detail record. A fresh network record is
// preferred and written through to the snapshot store; on upstream failure or
// a record missing from the response, the cached snapshot is the fallback.
func (s *Service) GetUser(ctx context.Context, id int64) (*UserDetail, Source, error) {
	var doc userDetailDocument
	err := s.gateway.GetJSON(ctx, s.endpoints.UserDetailsURL, &doc)
	if err != nil {
		s.logger.Warn("detail fetch failed, falling back to cache", "user_id", id, "error", err)
		return s.cachedUser(ctx, id)
	}

	if doc.Status {
		for i := range doc.Data {
			if doc.Data[i].ID == id {
				detail := doc.Data[i]
				s.persistSnapshot(ctx, id, &detail)
				return &detail, SourceNetwork, nil
			}
		}
	}

	return s.cachedUser(ctx, id)
}

// SetStatus replaces the status on a copy of detail and writes the copy
// through to the snapshot store. It never contacts the network; the list
// document is not updated and may disagree with the edit.
func (s *Service) SetStatus(ctx context.Context, id int64, detail *UserDetail, status UserStatus) UserDetail {
	updated := *detail
	updated.Status = status
	s.persistSnapshot(ctx, id, &updated)

	s.logger.Info("user status updated", "user_id", id, "status", status)
	return updated
}

// Stats summarises the current user list for the dashboard cards.
func (s *Service) Stats(ctx context.Context) Stats {
	users := s.ListUsers(ctx)

	stats := Stats{TotalUsers: len(users)}
	for _, u := range users {
		if strings.EqualFold(string(u.Status), string(StatusActive)) {
			stats.ActiveUsers++
		}
		if u.HasLoan {
			stats.UsersWithLoans++
		}
		if u.HasSavings {
			stats.UsersWithSavings++
		}
	}
	return stats
}

func (s *Service) cachedUser(ctx context.Context, id int64) (*UserDetail, Source, error) {
	value, found, err := s.store.Get(ctx, snapshotKey(id))
	if err != nil {
		// a broken store reads as a miss
		s.logger.Warn("snapshot read failed", "user_id", id, "error", err)
		return nil, "", internal.ErrUserNotFound
	}
	if !found {
		return nil, "", internal.ErrUserNotFound
	}

	var detail UserDetail
	if err := json.Unmarshal(value, &detail); err != nil {
		s.logger.Warn("snapshot is corrupt", "user_id", id, "error", err)
		return nil, "", internal.ErrUserNotFound
	}

	return &detail, SourceCache, nil
}

// persistSnapshot writes through to the store. A failed write is logged and
// otherwise ignored; it must never abort the action that triggered it.
func (s *Service) persistSnapshot(ctx context.Context, id int64, detail *UserDetail) {
	value, err := json.Marshal(detail)
	if err != nil {
		s.logger.Error("failed to encode user snapshot", "user_id", id, "error", err)
		return
	}

	if err := s.store.Set(ctx, snapshotKey(id), value); err != nil {
		s.logger.Warn("snapshot write failed", "user_id", id, "error", err)
	}
}

func snapshotKey(id int64) string {
	return fmt.Sprintf("user_%d", id)
}
