package manager

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Documents performs document CRUD against the registry's current database.
type Documents struct {
	registry *Registry
	logger   *zap.SugaredLogger
}

// NewDocuments creates a document store over registry
func NewDocuments(registry *Registry, logger *zap.SugaredLogger) *Documents {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Documents{registry: registry, logger: logger}
}

// Save writes doc as a full replacement and returns the resolved id. An empty
// id lets the engine generate one.
func (d *Documents) Save(doc domain.Document, id string) (string, error) {
	handle, err := d.registry.Current()
	if err != nil {
		return "", err
	}

	savedID, err := handle.Save(id, doc)
	if err != nil {
		d.logger.Errorw("Save failed", "database", handle.Name(), "id", id, "error", err)
		return "", domain.NewError(domain.KindStorageWrite, "save", "failed to save document", err)
	}

	d.logger.Debugw("Document saved", "database", handle.Name(), "id", savedID)
	return savedID, nil
}

// Fetch returns the document with the given id. A missing document is not an
// error: the record comes back with a nil Doc.
func (d *Documents) Fetch(id string) (domain.QueryResultRecord, error) {
	handle, err := d.registry.Current()
	if err != nil {
		return domain.QueryResultRecord{}, err
	}

	doc, found, err := handle.FetchByID(id)
	if err != nil {
		d.logger.Errorw("Fetch failed", "database", handle.Name(), "id", id, "error", err)
		return domain.QueryResultRecord{}, domain.NewError(domain.KindStorageRead, "fetch", "failed to read document "+id, err)
	}
	if !found {
		return domain.QueryResultRecord{ID: id}, nil
	}
	return domain.QueryResultRecord{ID: id, Doc: doc}, nil
}

// Purge permanently removes the document. Purges are not replicated.
func (d *Documents) Purge(id string) error {
	handle, err := d.registry.Current()
	if err != nil {
		return err
	}

	if err := handle.Purge(id); err != nil {
		d.logger.Errorw("Purge failed", "database", handle.Name(), "id", id, "error", err)
		return domain.NewError(domain.KindStorageWrite, "purge", "failed to purge document "+id, err)
	}
	return nil
}
