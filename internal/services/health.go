package services

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/connmgr"
)

// Health is a snapshot of backend availability.
type Health struct {
	Healthy  bool              `json:"healthy"`
	Backend  string            `json:"backend,omitempty"`
	State    string            `json:"state,omitempty"`
	Attempts []connmgr.Attempt `json:"attempts,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// connectionInfo is implemented by connmgr.Manager.
type connectionInfo interface {
	State() connmgr.State
	Attempts() []connmgr.Attempt
}

// HealthCheck runs a trivial query on the active adapter. The returned
// error is the reason the store is unhealthy, if it is.
func (s *DocumentStore) HealthCheck(ctx context.Context) (*Health, error) {
	h := &Health{}
	if info, ok := s.source.(connectionInfo); ok {
		h.State = info.State().String()
		h.Attempts = info.Attempts()
	}

	a, err := s.source.Adapter()
	if err != nil {
		h.Error = err.Error()
		return h, err
	}
	h.Backend = a.Name()

	if _, err := a.Query(ctx, "SELECT 1"); err != nil {
		h.Error = err.Error()
		s.log.Warn(ctx, "health check failed", "backend", h.Backend, "error", err)
		return h, err
	}
	h.Healthy = true
	return h, nil
}
