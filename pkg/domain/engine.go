package domain

import "context"

// Engine is the embedded document engine that owns the physical databases.
type Engine interface {
	// OpenOrCreate opens the database with the given name, creating it if needed.
	OpenOrCreate(name string) (Handle, error)
	// CreateReplicator builds a live replication process for the config.
	// The process does not run until Start is called.
	CreateReplicator(cfg ReplicatorConfig) (Replicator, error)
}

// Handle is an open connection to one physical database.
type Handle interface {
	Name() string
	// Save writes doc as a full replacement and returns the resolved id.
	// An empty id asks the engine to generate one.
	Save(id string, doc Document) (string, error)
	// FetchByID returns the document, or found=false when it does not exist.
	FetchByID(id string) (doc Document, found bool, err error)
	// Purge removes the document permanently; missing ids are ignored.
	Purge(id string) error
	Execute(ctx context.Context, q *Query) ([]Row, error)
	Close() error
}

// Replicator is a live replication process created by the engine.
type Replicator interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() ReplicatorStatus
}

// Indexer is implemented by handles that maintain secondary equality indexes.
type Indexer interface {
	CreateIndex(field string) error
	DropIndex(field string) error
	Indexes() []string
}
