// Package bridge exposes the manager operations to a calling process by
// name: a property bag of arguments in, a property bag, primitive or typed
// error out.
package bridge

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
	"github.com/adfharrison1/go-docsync/pkg/manager"
)

type method func(ctx context.Context, args Args) (interface{}, error)

// Bridge dispatches named calls to the manager.
type Bridge struct {
	manager *manager.Manager
	logger  *zap.SugaredLogger
	methods map[string]method
}

// New creates a bridge over m
func New(m *manager.Manager, logger *zap.SugaredLogger) *Bridge {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	b := &Bridge{manager: m, logger: logger}
	b.methods = map[string]method{
		"initDatabaseWithName":               b.initDatabaseWithName,
		"listDatabases":                      b.listDatabases,
		"saveDocument":                       b.saveDocument,
		"saveDocumentWithId":                 b.saveDocumentWithID,
		"getDocumentWithId":                  b.getDocumentWithID,
		"purgeDocument":                      b.purgeDocument,
		"getDocumentsWith":                   b.getDocumentsWith,
		"getAllDocuments":                    b.getAllDocuments,
		"queryWhere":                         b.queryWhere,
		"createIndex":                        b.createIndex,
		"listIndexes":                        b.listIndexes,
		"setReplicatorEndpoint":              b.setReplicatorEndpoint,
		"setReplicatorType":                  b.setReplicatorType,
		"setReplicatorBasicAuthentication":   b.setReplicatorBasicAuthentication,
		"setReplicatorSessionAuthentication": b.setReplicatorSessionAuthentication,
		"setReplicatorContinuous":            b.setReplicatorContinuous,
		"startReplicator":                    b.startReplicator,
		"stopReplicator":                     b.stopReplicator,
		"replicatorStatus":                   b.replicatorStatus,
	}
	return b
}

// Methods returns the callable method names in sorted order
func (b *Bridge) Methods() []string {
	names := make([]string, 0, len(b.methods))
	for name := range b.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named method with args. Unknown names fail with
// UnknownMethodError and malformed arguments with InvalidArgumentError.
func (b *Bridge) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	fn, ok := b.methods[name]
	if !ok {
		return nil, domain.Errorf(domain.KindUnknownMethod, name, "unknown method %q", name)
	}
	if args == nil {
		args = Args{}
	}

	result, err := fn(ctx, Args(args))
	if err != nil {
		b.logger.Warnw("Call failed", "method", name, "kind", domain.KindOf(err), "error", err)
		return nil, err
	}
	b.logger.Debugw("Call completed", "method", name)
	return result, nil
}

func (b *Bridge) initDatabaseWithName(_ context.Context, args Args) (interface{}, error) {
	name, err := args.String("initDatabaseWithName", "name")
	if err != nil {
		return nil, err
	}
	handle, err := b.manager.Registry.Open(name)
	if err != nil {
		return nil, err
	}
	return handle.Name(), nil
}

func (b *Bridge) listDatabases(context.Context, Args) (interface{}, error) {
	return map[string]interface{}{
		"databases": b.manager.Registry.Names(),
		"current":   b.manager.Registry.CurrentName(),
	}, nil
}

func (b *Bridge) saveDocument(_ context.Context, args Args) (interface{}, error) {
	doc, err := args.Map("saveDocument", "doc")
	if err != nil {
		return nil, err
	}
	return b.manager.Documents.Save(domain.Document(doc), "")
}

func (b *Bridge) saveDocumentWithID(_ context.Context, args Args) (interface{}, error) {
	id, err := args.String("saveDocumentWithId", "id")
	if err != nil {
		return nil, err
	}
	doc, err := args.Map("saveDocumentWithId", "doc")
	if err != nil {
		return nil, err
	}
	return b.manager.Documents.Save(domain.Document(doc), id)
}

func (b *Bridge) getDocumentWithID(_ context.Context, args Args) (interface{}, error) {
	id, err := args.String("getDocumentWithId", "id")
	if err != nil {
		return nil, err
	}
	record, err := b.manager.Documents.Fetch(id)
	if err != nil {
		return nil, err
	}
	return recordBag(record), nil
}

func (b *Bridge) purgeDocument(_ context.Context, args Args) (interface{}, error) {
	id, err := args.String("purgeDocument", "id")
	if err != nil {
		return nil, err
	}
	return nil, b.manager.Documents.Purge(id)
}

func (b *Bridge) getDocumentsWith(ctx context.Context, args Args) (interface{}, error) {
	key, err := args.String("getDocumentsWith", "key")
	if err != nil {
		return nil, err
	}
	value, err := args.String("getDocumentsWith", "value")
	if err != nil {
		return nil, err
	}
	records, err := b.manager.Queries.Equals(ctx, key, value)
	if err != nil {
		return nil, err
	}
	return docsBag(records), nil
}

func (b *Bridge) getAllDocuments(ctx context.Context, _ Args) (interface{}, error) {
	records, err := b.manager.Queries.All(ctx)
	if err != nil {
		return nil, err
	}
	return docsBag(records), nil
}

func (b *Bridge) queryWhere(ctx context.Context, args Args) (interface{}, error) {
	filter, err := args.Map("queryWhere", "filter")
	if err != nil {
		return nil, err
	}
	records, err := b.manager.Queries.Where(ctx, filter)
	if err != nil {
		return nil, err
	}
	return docsBag(records), nil
}

func (b *Bridge) createIndex(_ context.Context, args Args) (interface{}, error) {
	field, err := args.String("createIndex", "field")
	if err != nil {
		return nil, err
	}
	if err := b.manager.Indexes.Create(field); err != nil {
		return nil, err
	}
	return field, nil
}

func (b *Bridge) listIndexes(context.Context, Args) (interface{}, error) {
	fields, err := b.manager.Indexes.List()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"indexes": fields}, nil
}

func (b *Bridge) setReplicatorEndpoint(_ context.Context, args Args) (interface{}, error) {
	endpoint, err := args.String("setReplicatorEndpoint", "url")
	if err != nil {
		return nil, err
	}
	return b.manager.Session.SetEndpoint(endpoint)
}

func (b *Bridge) setReplicatorType(_ context.Context, args Args) (interface{}, error) {
	kind, err := args.String("setReplicatorType", "type")
	if err != nil {
		return nil, err
	}
	direction, err := b.manager.Session.SetType(kind)
	if err != nil {
		return nil, err
	}
	return direction.String(), nil
}

func (b *Bridge) setReplicatorBasicAuthentication(_ context.Context, args Args) (interface{}, error) {
	username, err := args.String("setReplicatorBasicAuthentication", "username")
	if err != nil {
		return nil, err
	}
	password, err := args.String("setReplicatorBasicAuthentication", "password")
	if err != nil {
		return nil, err
	}
	return b.manager.Session.SetBasicAuth(username, password)
}

func (b *Bridge) setReplicatorSessionAuthentication(_ context.Context, args Args) (interface{}, error) {
	// a missing or empty session id is reported by the session itself
	sessionID, _ := args["sessionId"].(string)
	return b.manager.Session.SetSessionAuth(sessionID)
}

func (b *Bridge) setReplicatorContinuous(_ context.Context, args Args) (interface{}, error) {
	continuous, err := args.Bool("setReplicatorContinuous", "continuous")
	if err != nil {
		return nil, err
	}
	return b.manager.Session.SetContinuous(continuous)
}

func (b *Bridge) startReplicator(ctx context.Context, _ Args) (interface{}, error) {
	return nil, b.manager.Session.Start(ctx)
}

func (b *Bridge) stopReplicator(ctx context.Context, _ Args) (interface{}, error) {
	return nil, b.manager.Session.Stop(ctx)
}

func (b *Bridge) replicatorStatus(context.Context, Args) (interface{}, error) {
	status := b.manager.Session.Status()
	bag := map[string]interface{}{
		"state":    b.manager.Session.State().String(),
		"activity": status.Activity.String(),
		"pushed":   status.Pushed,
		"pulled":   status.Pulled,
		"passes":   status.Passes,
	}
	if !status.LastPass.IsZero() {
		bag["lastPass"] = status.LastPass
	}
	if status.LastError != nil {
		bag["lastError"] = status.LastError.Error()
	}
	return bag, nil
}

func recordBag(record domain.QueryResultRecord) map[string]interface{} {
	var doc interface{}
	if record.Doc != nil {
		doc = map[string]interface{}(record.Doc)
	}
	return map[string]interface{}{"id": record.ID, "doc": doc}
}

func docsBag(records []domain.QueryResultRecord) map[string]interface{} {
	docs := make([]interface{}, len(records))
	for i, record := range records {
		docs[i] = recordBag(record)
	}
	return map[string]interface{}{"docs": docs}
}
