package manager

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Indexes manages secondary equality indexes on the current database.
type Indexes struct {
	registry *Registry
	logger   *zap.SugaredLogger
}

// NewIndexes creates an index manager over registry
func NewIndexes(registry *Registry, logger *zap.SugaredLogger) *Indexes {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Indexes{registry: registry, logger: logger}
}

// Create builds an index on field. The reserved id property is always
// indexed and cannot be indexed again.
func (x *Indexes) Create(field string) error {
	if field == "" || field == domain.MetaIDKey {
		return domain.Errorf(domain.KindInvalidArgument, "createIndex", "cannot create index on field %q", field)
	}
	indexer, name, err := x.current("createIndex")
	if err != nil {
		return err
	}
	if err := indexer.CreateIndex(field); err != nil {
		return domain.NewError(domain.KindStorageWrite, "createIndex", "failed to create index on "+field, err)
	}
	x.logger.Infow("Index created", "database", name, "field", field)
	return nil
}

// Drop removes the index on field
func (x *Indexes) Drop(field string) error {
	indexer, name, err := x.current("dropIndex")
	if err != nil {
		return err
	}
	if err := indexer.DropIndex(field); err != nil {
		return domain.NewError(domain.KindStorageWrite, "dropIndex", "failed to drop index on "+field, err)
	}
	x.logger.Infow("Index dropped", "database", name, "field", field)
	return nil
}

// List returns the indexed fields of the current database
func (x *Indexes) List() ([]string, error) {
	indexer, _, err := x.current("listIndexes")
	if err != nil {
		return nil, err
	}
	return indexer.Indexes(), nil
}

func (x *Indexes) current(op string) (domain.Indexer, string, error) {
	handle, err := x.registry.Current()
	if err != nil {
		return nil, "", err
	}
	indexer, ok := handle.(domain.Indexer)
	if !ok {
		return nil, "", domain.Errorf(domain.KindInvalidArgument, op, "database %s does not support indexes", handle.Name())
	}
	return indexer, handle.Name(), nil
}
