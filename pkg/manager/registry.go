package manager

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Registry maps database names to open handles and tracks the current one.
// Handles are only closed by Close at process teardown.
type Registry struct {
	mu      sync.Mutex
	engine  domain.Engine
	handles map[string]domain.Handle
	current string
	logger  *zap.SugaredLogger
}

// NewRegistry creates an empty registry backed by engine
func NewRegistry(engine domain.Engine, logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Registry{
		engine:  engine,
		handles: make(map[string]domain.Handle),
		logger:  logger,
	}
}

// Open returns the handle for name, opening it on first use, and makes it
// the current database.
func (r *Registry) Open(name string) (domain.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, exists := r.handles[name]; exists {
		r.current = name
		return handle, nil
	}
	if name == "" {
		return nil, domain.Errorf(domain.KindStorageOpen, "open", "database name cannot be empty")
	}

	handle, err := r.engine.OpenOrCreate(name)
	if err != nil {
		r.logger.Errorw("Failed to open database", "name", name, "error", err)
		return nil, domain.NewError(domain.KindStorageOpen, "open", "failed to open database "+name, err)
	}

	r.handles[name] = handle
	r.current = name
	r.logger.Infow("Database opened", "name", name)
	return handle, nil
}

// Current returns the handle of the current database
func (r *Registry) Current() (domain.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == "" {
		return nil, domain.Errorf(domain.KindNoCurrentDatabase, "current", "no database has been opened")
	}
	return r.handles[r.current], nil
}

// CurrentName returns the current database name, or "" before the first open
func (r *Registry) CurrentName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Get looks up a handle without changing the current database
func (r *Registry) Get(name string) (domain.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, exists := r.handles[name]
	return handle, exists
}

// Names returns the open database names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every handle and resets the registry. Only call at teardown.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, handle := range r.handles {
		if err := handle.Close(); err != nil {
			r.logger.Errorw("Failed to close database", "name", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	r.handles = make(map[string]domain.Handle)
	r.current = ""
	return firstErr
}
