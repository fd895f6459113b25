package bridge

import (
	"context"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/bridge/server"
	"github.com/autopeer-io/vocbridge/pkg/log"
)

// Bridge is the running application: one vehicle session and the servers
// exposing it.
type Bridge struct {
	session       core.Session
	serverManager *server.Manager
}

// Session returns the vehicle session, possibly unavailable.
func (b *Bridge) Session() core.Session {
	return b.session
}

// Run starts the application components and blocks until ctx is done or a
// server fails.
func (b *Bridge) Run(ctx context.Context) error {
	log.Info("Starting VOC bridge...", "vin", b.session.VIN(), "available", core.Available(b.session))

	if b.serverManager.Len() == 0 {
		log.Warn("Nothing to serve, waiting for shutdown")
		<-ctx.Done()
		return nil
	}
	return b.serverManager.Start(ctx)
}
