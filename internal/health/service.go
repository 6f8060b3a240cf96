package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK             bool   `json:"ok"`
	Database       string `json:"database"`
	ContextVersion uint64 `json:"contextVersion"`
}

// Service encapsulates health-related checks.
type Service struct {
	db      Pinger
	version func() uint64
	timeout time.Duration
}

// NewService constructs a new health service. db may be nil when repositories are
// in-memory; version reports the document context generation.
func NewService(db Pinger, version func() uint64) *Service {
	return &Service{db: db, version: version, timeout: 2 * time.Second}
}

// Status reports datastore reachability.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory"}
	if s.version != nil {
		st.ContextVersion = s.version()
	}
	if s.db == nil {
		return st
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Database = "down"
		return st
	}
	st.Database = "up"
	return st
}
