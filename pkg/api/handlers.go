// Package api is the HTTP adapter: the call-bridge endpoint used by a host
// process and the document sync endpoint used by replicating peers.
package api

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/bridge"
	"github.com/adfharrison1/go-docsync/pkg/storage"
)

// Handler provides HTTP handlers for the bridge and sync API
type Handler struct {
	bridge *bridge.Bridge
	engine *storage.Engine
	logger *zap.SugaredLogger
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(b *bridge.Bridge, engine *storage.Engine, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		bridge: b,
		engine: engine,
		logger: logger,
	}
}
