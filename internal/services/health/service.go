package health

import (
	"context"
	"database/sql"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when drafts run
// on a non-database store.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall health plus the database check when one is wired.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{"ok": true}
	if s.DB == nil {
		return status
	}
	if err := s.DB.PingContext(ctx); err != nil {
		status["ok"] = false
		status["database"] = "unavailable"
		return status
	}
	status["database"] = "ok"
	return status
}
