package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/adfharrison1/go-docsync/pkg/domain"
	"github.com/adfharrison1/go-docsync/pkg/indexing"
)

var _ domain.Handle = (*Database)(nil)

// ErrDatabaseClosed is returned by every operation on a closed database.
var ErrDatabaseClosed = errors.New("database is closed")

// Change is a document revision recorded in the database's sequence.
type Change struct {
	ID  string
	Seq uint64
	Doc domain.Document
}

// Database is an open handle on one physical database file.
type Database struct {
	mu      sync.RWMutex
	engine  *Engine
	name    string
	path    string
	docs    map[string]domain.Document
	seqs    map[string]uint64
	lastSeq uint64
	indexes *indexing.IndexEngine
	dirty   bool
	closed  bool
}

func newDatabase(engine *Engine, name, path string) *Database {
	return &Database{
		engine:  engine,
		name:    name,
		path:    path,
		docs:    make(map[string]domain.Document),
		seqs:    make(map[string]uint64),
		indexes: indexing.NewIndexEngine(),
	}
}

// Name returns the database name
func (db *Database) Name() string {
	return db.name
}

// Path returns the database file path
func (db *Database) Path() string {
	return db.path
}

// Save writes doc as a full replacement. An empty id falls back to a string
// _id property, then to a generated UUID.
func (db *Database) Save(id string, doc domain.Document) (string, error) {
	stored := doc.Clone()
	if stored == nil {
		stored = domain.Document{}
	}
	if id == "" {
		if metaID, ok := stored[domain.MetaIDKey].(string); ok && metaID != "" {
			id = metaID
		} else {
			id = uuid.New().String()
		}
	}
	delete(stored, domain.MetaIDKey)

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return "", ErrDatabaseClosed
	}
	undo := db.putLocked(id, stored)
	if err := db.persistAfterWrite(); err != nil {
		undo()
		return "", err
	}
	return id, nil
}

// FetchByID returns a copy of the document
func (db *Database) FetchByID(id string) (domain.Document, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, false, ErrDatabaseClosed
	}
	doc, exists := db.docs[id]
	if !exists {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

// Purge removes a document without leaving a tombstone
func (db *Database) Purge(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	old, exists := db.docs[id]
	if !exists {
		return nil
	}
	oldSeq, oldDirty := db.seqs[id], db.dirty

	db.indexes.UpdateIndexForDocument(id, old, nil)
	delete(db.docs, id)
	delete(db.seqs, id)
	db.dirty = true
	if err := db.persistAfterWrite(); err != nil {
		db.indexes.UpdateIndexForDocument(id, nil, old)
		db.docs[id] = old
		db.seqs[id] = oldSeq
		db.dirty = oldDirty
		return err
	}
	return nil
}

// Execute runs a query and returns one row per matching document, ordered by
// document id. Each row holds the id under domain.RowIDColumn and the
// document under the database name.
func (db *Database) Execute(ctx context.Context, q *domain.Query) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("query is nil")
	}
	if q.From != db.name {
		return nil, fmt.Errorf("query targets database %q but handle is %q", q.From, db.name)
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, ErrDatabaseClosed
	}

	filter := q.Filter()
	var ids []string
	if candidateIDs, useIndex := db.indexes.Candidates(filter); useIndex {
		ids = append(ids, candidateIDs...)
	} else {
		ids = make([]string, 0, len(db.docs))
		for id := range db.docs {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	rows := make([]domain.Row, 0, len(ids))
	for _, id := range ids {
		doc, exists := db.docs[id]
		if !exists || !MatchesFilter(doc, filter) {
			continue
		}
		rows = append(rows, domain.Row{
			domain.RowIDColumn: id,
			db.name:            map[string]interface{}(doc.Clone()),
		})
	}
	return rows, nil
}

// CreateIndex builds an equality index on a top-level field
func (db *Database) CreateIndex(fieldName string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	if err := db.indexes.CreateIndex(fieldName, db.docs); err != nil {
		return err
	}
	oldDirty := db.dirty
	db.dirty = true
	if err := db.persistAfterWrite(); err != nil {
		db.indexes.DropIndex(fieldName)
		db.dirty = oldDirty
		return err
	}
	return nil
}

// DropIndex removes the index on a field
func (db *Database) DropIndex(fieldName string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	if err := db.indexes.DropIndex(fieldName); err != nil {
		return err
	}
	oldDirty := db.dirty
	db.dirty = true
	if err := db.persistAfterWrite(); err != nil {
		db.indexes.CreateIndex(fieldName, db.docs)
		db.dirty = oldDirty
		return err
	}
	return nil
}

// Indexes returns the indexed field names
func (db *Database) Indexes() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.indexes.GetIndexes()
}

// Count returns the number of documents
func (db *Database) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.docs)
}

// Changes returns the documents written after sequence since, in sequence
// order, and the database's current last sequence.
func (db *Database) Changes(since uint64) ([]Change, uint64) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var changes []Change
	for id, seq := range db.seqs {
		if seq > since {
			changes = append(changes, Change{ID: id, Seq: seq, Doc: db.docs[id].Clone()})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Seq < changes[j].Seq })
	return changes, db.lastSeq
}

// ApplyRemote stores a document received from a peer. Identical content is
// skipped so replication passes converge; changed reports whether it wrote.
func (db *Database) ApplyRemote(id string, doc domain.Document) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("document id cannot be empty")
	}
	stored := doc.WithoutMeta()
	if stored == nil {
		stored = domain.Document{}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return false, ErrDatabaseClosed
	}
	if existing, exists := db.docs[id]; exists && reflect.DeepEqual(existing, stored) {
		return false, nil
	}
	undo := db.putLocked(id, stored)
	if err := db.persistAfterWrite(); err != nil {
		undo()
		return false, err
	}
	return true, nil
}

// Close persists pending writes and releases the handle
func (db *Database) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	var err error
	if db.dirty {
		err = db.saveLocked()
	}
	db.closed = true
	db.mu.Unlock()

	db.engine.forget(db.name)
	return err
}

// putLocked stores a document and records its sequence; caller holds db.mu.
// The returned func restores the previous state when the write cannot be
// persisted.
func (db *Database) putLocked(id string, doc domain.Document) (undo func()) {
	oldDoc, hadDoc := db.docs[id]
	oldSeq, hadSeq := db.seqs[id]
	oldLastSeq, oldDirty := db.lastSeq, db.dirty

	db.indexes.UpdateIndexForDocument(id, oldDoc, doc)
	db.docs[id] = doc
	db.lastSeq++
	db.seqs[id] = db.lastSeq
	db.dirty = true

	return func() {
		db.indexes.UpdateIndexForDocument(id, doc, oldDoc)
		if hadDoc {
			db.docs[id] = oldDoc
		} else {
			delete(db.docs, id)
		}
		if hadSeq {
			db.seqs[id] = oldSeq
		} else {
			delete(db.seqs, id)
		}
		db.lastSeq = oldLastSeq
		db.dirty = oldDirty
	}
}

func (db *Database) persistAfterWrite() error {
	if !db.engine.transactionSave {
		return nil
	}
	return db.saveLocked()
}
