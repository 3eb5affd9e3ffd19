package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

var _ domain.Replicator = (*Replicator)(nil)

// replicationSource is the part of a database a replicator reads and writes.
type replicationSource interface {
	Name() string
	Changes(since uint64) ([]Change, uint64)
	ApplyRemote(id string, doc domain.Document) (bool, error)
}

// Replicator copies documents between a local database and a sync endpoint.
// A one-shot replicator runs a single pass; a continuous one repeats passes
// until stopped.
type Replicator struct {
	cfg       domain.ReplicatorConfig
	source    replicationSource
	transport Transport
	interval  time.Duration
	logger    *zap.SugaredLogger

	// checkpoint is only touched by the run goroutine
	checkpoint uint64

	mu     sync.Mutex
	status domain.ReplicatorStatus
	cancel context.CancelFunc
	done   chan struct{}
}

func newReplicator(cfg domain.ReplicatorConfig, source replicationSource, transport Transport, interval time.Duration, logger *zap.SugaredLogger) *Replicator {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Replicator{
		cfg:       cfg,
		source:    source,
		transport: transport,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the replication goroutine and returns immediately.
func (r *Replicator) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		select {
		case <-r.done:
		default:
			return fmt.Errorf("replicator already running")
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.status.Activity = domain.ActivityBusy
	r.status.LastError = nil

	r.logger.Infow("Starting replicator",
		"database", r.source.Name(),
		"target", r.cfg.Target.String(),
		"direction", r.cfg.Direction.String(),
		"continuous", r.cfg.Continuous)

	go r.run(runCtx, done)
	return nil
}

// Stop cancels the replication goroutine and waits for it to exit or for
// ctx to be done.
func (r *Replicator) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the replication goroutine exits.
func (r *Replicator) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Status returns a snapshot of the replicator's progress
func (r *Replicator) Status() domain.ReplicatorStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Replicator) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.setActivity(domain.ActivityStopped)

	limiter := rate.NewLimiter(rate.Every(r.interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		r.setActivity(domain.ActivityBusy)

		err := r.replicate(ctx)
		if ctx.Err() != nil {
			return
		}
		r.recordPass(err)

		if !r.cfg.Continuous {
			return
		}
		r.setActivity(domain.ActivityIdle)
	}
}

// replicate runs one push and/or pull pass.
func (r *Replicator) replicate(ctx context.Context) error {
	if r.cfg.Direction.Pushes() {
		changes, lastSeq := r.source.Changes(r.checkpoint)
		for _, change := range changes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.transport.Push(ctx, change.ID, change.Doc); err != nil {
				return fmt.Errorf("push %s: %w", change.ID, err)
			}
			r.checkpoint = change.Seq
			r.addCounts(1, 0)
		}
		if lastSeq > r.checkpoint {
			r.checkpoint = lastSeq
		}
	}

	if r.cfg.Direction.Pulls() {
		records, err := r.transport.Pull(ctx)
		if err != nil {
			return fmt.Errorf("pull: %w", err)
		}
		for _, record := range records {
			if record.Doc == nil {
				continue
			}
			changed, err := r.source.ApplyRemote(record.ID, record.Doc)
			if err != nil {
				return fmt.Errorf("apply %s: %w", record.ID, err)
			}
			if changed {
				r.addCounts(0, 1)
			}
		}
	}
	return nil
}

func (r *Replicator) setActivity(activity domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Activity = activity
}

func (r *Replicator) addCounts(pushed, pulled int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Pushed += pushed
	r.status.Pulled += pulled
}

func (r *Replicator) recordPass(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Passes++
	r.status.LastPass = time.Now()
	r.status.LastError = err
	if err != nil {
		r.logger.Warnw("Replication pass failed", "database", r.source.Name(), "error", err)
	} else {
		r.logger.Debugw("Replication pass completed",
			"database", r.source.Name(),
			"pushed", r.status.Pushed,
			"pulled", r.status.Pulled)
	}
}
