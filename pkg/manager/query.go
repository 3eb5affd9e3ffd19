package manager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Queries builds and runs queries against the current database and reshapes
// the engine's rows into records.
type Queries struct {
	registry *Registry
	logger   *zap.SugaredLogger
}

// NewQueries creates a query translator over registry
func NewQueries(registry *Registry, logger *zap.SugaredLogger) *Queries {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Queries{registry: registry, logger: logger}
}

// Equals returns every document whose property key equals the string value.
func (q *Queries) Equals(ctx context.Context, key, value string) ([]domain.QueryResultRecord, error) {
	return q.run(ctx, "queryEquals", func(from string) *domain.Query {
		return domain.SelectAll(from).WhereEquals(key, value)
	})
}

// All returns every document in the current database.
func (q *Queries) All(ctx context.Context) ([]domain.QueryResultRecord, error) {
	return q.run(ctx, "queryAll", domain.SelectAll)
}

// Where returns every document matching all property == value pairs.
func (q *Queries) Where(ctx context.Context, filter map[string]interface{}) ([]domain.QueryResultRecord, error) {
	return q.run(ctx, "queryWhere", func(from string) *domain.Query {
		query := domain.SelectAll(from)
		for key, value := range filter {
			query.WhereEquals(key, value)
		}
		return query
	})
}

func (q *Queries) run(ctx context.Context, op string, build func(from string) *domain.Query) ([]domain.QueryResultRecord, error) {
	handle, err := q.registry.Current()
	if err != nil {
		return nil, err
	}

	name := handle.Name()
	rows, err := handle.Execute(ctx, build(name))
	if err != nil {
		q.logger.Errorw("Query failed", "op", op, "database", name, "error", err)
		return nil, domain.NewError(domain.KindQueryExecution, op, "query execution failed", err)
	}

	records, err := unwrapRows(name, rows)
	if err != nil {
		q.logger.Errorw("Query returned malformed rows", "op", op, "database", name, "error", err)
		return nil, domain.NewError(domain.KindQueryExecution, op, "malformed result row", err)
	}

	q.logger.Debugw("Query executed", "op", op, "database", name, "results", len(records))
	return records, nil
}

// unwrapRows extracts the id column and the payload keyed by the database
// name from each row.
func unwrapRows(dbName string, rows []domain.Row) ([]domain.QueryResultRecord, error) {
	records := make([]domain.QueryResultRecord, 0, len(rows))
	for i, row := range rows {
		id, ok := row[domain.RowIDColumn].(string)
		if !ok {
			return nil, fmt.Errorf("row %d: missing %q column", i, domain.RowIDColumn)
		}

		var doc domain.Document
		switch payload := row[dbName].(type) {
		case domain.Document:
			doc = payload
		case map[string]interface{}:
			doc = domain.Document(payload)
		default:
			return nil, fmt.Errorf("row %d: payload %q has type %T", i, dbName, payload)
		}
		records = append(records, domain.QueryResultRecord{ID: id, Doc: doc})
	}
	return records, nil
}
