// Package manager is the management layer in front of the embedded document
// engine: a registry of named database handles, document CRUD and queries
// against the current database, and the replicator session state machine.
package manager

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Manager groups the components that share one registry.
type Manager struct {
	Registry  *Registry
	Documents *Documents
	Queries   *Queries
	Indexes   *Indexes
	Session   *Session
}

// New wires the registry and every component that resolves the current
// database through it.
func New(engine domain.Engine, logger *zap.SugaredLogger, options ...SessionOption) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	registry := NewRegistry(engine, logger.Named("registry"))
	return &Manager{
		Registry:  registry,
		Documents: NewDocuments(registry, logger.Named("documents")),
		Queries:   NewQueries(registry, logger.Named("queries")),
		Indexes:   NewIndexes(registry, logger.Named("indexes")),
		Session:   NewSession(registry, engine, logger.Named("replicator"), options...),
	}
}
