// Package storage is the embedded document engine: one lz4-compressed
// msgpack file per named database, equality indexes, query execution and
// replication against a remote sync endpoint.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

var _ domain.Engine = (*Engine)(nil)

// Engine owns every open database and the background save worker.
type Engine struct {
	mu        sync.RWMutex
	databases map[string]*Database

	// Configuration
	dataDir             string
	backgroundSave      bool
	transactionSave     bool
	saveInterval        time.Duration
	replicationInterval time.Duration
	transportFactory    TransportFactory
	logger              *zap.SugaredLogger

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewEngine creates a new storage engine
func NewEngine(options ...EngineOption) *Engine {
	engine := &Engine{
		databases:           make(map[string]*Database),
		dataDir:             ".",
		transactionSave:     true,
		saveInterval:        5 * time.Minute,
		replicationInterval: 5 * time.Second,
		transportFactory:    NewHTTPTransport,
		logger:              zap.NewNop().Sugar(),
		stopChan:            make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// OpenOrCreate implements domain.Engine
func (e *Engine) OpenOrCreate(name string) (domain.Handle, error) {
	db, err := e.Open(name)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Open returns the open database with the given name, loading it from disk
// or creating it on first use.
func (e *Engine) Open(name string) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if db, exists := e.databases[name]; exists {
		return db, nil
	}

	if err := os.MkdirAll(e.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db := newDatabase(e, name, filepath.Join(e.dataDir, name+FileExtension))
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load database %s: %w", name, err)
	}

	e.databases[name] = db
	e.logger.Infow("Opened database", "name", name, "path", db.path, "documents", len(db.docs))
	return db, nil
}

// Lookup returns an already open database without opening it
func (e *Engine) Lookup(name string) (*Database, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	db, exists := e.databases[name]
	return db, exists
}

// Databases returns the names of the open databases in sorted order
func (e *Engine) Databases() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.databases))
	for name := range e.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateReplicator implements domain.Engine
func (e *Engine) CreateReplicator(cfg domain.ReplicatorConfig) (domain.Replicator, error) {
	if cfg.Target == nil {
		return nil, fmt.Errorf("replicator target is required")
	}
	source, ok := cfg.Database.(replicationSource)
	if !ok {
		return nil, fmt.Errorf("database handle %T does not support replication", cfg.Database)
	}
	transport, err := e.transportFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}
	return newReplicator(cfg, source, transport, e.replicationInterval, e.logger), nil
}

// Close saves and closes every open database and stops background workers.
func (e *Engine) Close() error {
	e.StopBackgroundWorkers()

	e.mu.RLock()
	dbs := make([]*Database, 0, len(e.databases))
	for _, db := range e.databases {
		dbs = append(dbs, db)
	}
	e.mu.RUnlock()

	var firstErr error
	for _, db := range dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) forget(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.databases, name)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid database name %q", name)
	}
	return nil
}
