package manager

import (
	"context"
	"sync"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// fakeEngine is a hand-written domain.Engine for exercising failure paths
type fakeEngine struct {
	mu            sync.Mutex
	openErr       error
	replicatorErr error
	opened        map[string]int
	handles       map[string]*fakeHandle
	replicators   []*fakeReplicator
	nextRepl      *fakeReplicator
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		opened:  make(map[string]int),
		handles: make(map[string]*fakeHandle),
	}
}

func (e *fakeEngine) OpenOrCreate(name string) (domain.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.openErr != nil {
		return nil, e.openErr
	}
	e.opened[name]++
	handle, exists := e.handles[name]
	if !exists {
		handle = newFakeHandle(name)
		e.handles[name] = handle
	}
	return handle, nil
}

func (e *fakeEngine) CreateReplicator(cfg domain.ReplicatorConfig) (domain.Replicator, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.replicatorErr != nil {
		return nil, e.replicatorErr
	}
	replicator := e.nextRepl
	if replicator == nil {
		replicator = &fakeReplicator{}
	}
	e.nextRepl = nil
	replicator.cfg = cfg
	e.replicators = append(e.replicators, replicator)
	return replicator, nil
}

// fakeHandle stores documents in a map and returns canned errors
type fakeHandle struct {
	name     string
	docs     map[string]domain.Document
	saveErr  error
	fetchErr error
	purgeErr error
	execErr  error
	rows     []domain.Row
	lastQ    *domain.Query
	closed   bool
}

func newFakeHandle(name string) *fakeHandle {
	return &fakeHandle{name: name, docs: make(map[string]domain.Document)}
}

func (h *fakeHandle) Name() string { return h.name }

func (h *fakeHandle) Save(id string, doc domain.Document) (string, error) {
	if h.saveErr != nil {
		return "", h.saveErr
	}
	if id == "" {
		id = "generated-id"
	}
	h.docs[id] = doc.Clone()
	return id, nil
}

func (h *fakeHandle) FetchByID(id string) (domain.Document, bool, error) {
	if h.fetchErr != nil {
		return nil, false, h.fetchErr
	}
	doc, ok := h.docs[id]
	return doc, ok, nil
}

func (h *fakeHandle) Purge(id string) error {
	if h.purgeErr != nil {
		return h.purgeErr
	}
	delete(h.docs, id)
	return nil
}

func (h *fakeHandle) Execute(ctx context.Context, q *domain.Query) ([]domain.Row, error) {
	h.lastQ = q
	if h.execErr != nil {
		return nil, h.execErr
	}
	return h.rows, nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

// fakeReplicator records lifecycle calls
type fakeReplicator struct {
	mu       sync.Mutex
	cfg      domain.ReplicatorConfig
	startErr error
	stopErr  error
	starts   int
	stops    int
	pushed   int64
}

func (r *fakeReplicator) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.starts++
	return nil
}

func (r *fakeReplicator) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopErr != nil {
		return r.stopErr
	}
	r.stops++
	return nil
}

func (r *fakeReplicator) setPushed(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = n
}

func (r *fakeReplicator) Status() domain.ReplicatorStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := domain.ReplicatorStatus{Pushed: r.pushed}
	if r.starts > r.stops {
		status.Activity = domain.ActivityBusy
	}
	return status
}
