package domain

// MetaIDKey is the property the engine reserves for the document id. It is
// never stored in a property bag and never returned to callers.
const MetaIDKey = "_id"

// Document is the property bag of a stored document
type Document map[string]interface{}

// Clone returns a deep copy of the document. Nested maps and lists are
// copied so callers can never mutate stored state through a snapshot.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// WithoutMeta returns a copy of the document with engine metadata removed.
func (d Document) WithoutMeta() Document {
	out := d.Clone()
	delete(out, MetaIDKey)
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return map[string]interface{}(Document(t).Clone())
	case Document:
		return t.Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// QueryResultRecord is the uniform shape of every document read.
// Doc is nil when the document does not exist.
type QueryResultRecord struct {
	ID  string   `json:"id"`
	Doc Document `json:"doc"`
}

// Row is a raw result row produced by the engine. It carries the document id
// under RowIDColumn and the document payload under the database's name.
type Row map[string]interface{}

// RowIDColumn is the column holding the document id in a Row.
const RowIDColumn = "id"
