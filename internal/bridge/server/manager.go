package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/vocbridge/pkg/log"
)

// Server defines the common interface for everything the bridge runs:
// protocol servers and the refresh scheduler.
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all servers.
type Manager struct {
	servers []Server
}

// NewManager creates a manager for the given servers. Nil servers are skipped.
func NewManager(servers ...Server) *Manager {
	m := &Manager{}
	for _, s := range servers {
		if s != nil {
			m.servers = append(m.servers, s)
		}
	}
	return m
}

// Len returns the number of managed servers.
func (m *Manager) Len() int {
	return len(m.servers)
}

// Start launches all servers in parallel and waits for termination. The
// first failure stops the others.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		g.Go(func() error {
			return s.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}
