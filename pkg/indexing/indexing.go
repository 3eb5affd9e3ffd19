// Package indexing maintains inverted equality indexes over the documents
// of a single database.
package indexing

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// IndexEngine holds the indexes of one database, keyed by field name.
// It is not safe for concurrent use; the owning database serializes access.
type IndexEngine struct {
	indexes map[string]*Index
}

// NewIndexEngine creates an empty index engine
func NewIndexEngine() *IndexEngine {
	return &IndexEngine{
		indexes: make(map[string]*Index),
	}
}

// Index stores a mapping from a field's value to document IDs.
type Index struct {
	Field    string
	Inverted map[interface{}][]string
}

// NewIndex creates an index on a specific field.
func NewIndex(field string) *Index {
	return &Index{
		Field:    field,
		Inverted: make(map[interface{}][]string),
	}
}

// Key normalizes a value into a comparable index key. Numbers collapse to
// float64 so 3 and 3.0 share an entry. Maps, lists and nil are not indexable.
func Key(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case string, bool:
		return v, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return nil, false
	}
}

// BuildIndex indexes every document by the index field, replacing prior state.
func (idx *Index) BuildIndex(docs map[string]domain.Document) {
	idx.Inverted = make(map[interface{}][]string)
	for docID, doc := range docs {
		idx.add(docID, doc)
	}
}

// Query returns document IDs that match a given value in the indexed field.
func (idx *Index) Query(value interface{}) []string {
	key, ok := Key(value)
	if !ok {
		return nil
	}
	return idx.Inverted[key]
}

// UpdateIndex updates index after an insert/update/delete operation.
// oldDoc is nil for inserts, newDoc is nil for deletions.
func (idx *Index) UpdateIndex(docID string, oldDoc, newDoc domain.Document) {
	idx.remove(docID, oldDoc)
	idx.add(docID, newDoc)
}

func (idx *Index) add(docID string, doc domain.Document) {
	if key, ok := Key(doc[idx.Field]); ok {
		idx.Inverted[key] = append(idx.Inverted[key], docID)
	}
}

func (idx *Index) remove(docID string, doc domain.Document) {
	key, ok := Key(doc[idx.Field])
	if !ok {
		return
	}
	docList := idx.Inverted[key]
	for i, id := range docList {
		if id == docID {
			docList = append(docList[:i:i], docList[i+1:]...)
			break
		}
	}
	if len(docList) == 0 {
		delete(idx.Inverted, key)
	} else {
		idx.Inverted[key] = docList
	}
}

// CreateIndex registers an index on a field and builds it from docs
func (ie *IndexEngine) CreateIndex(fieldName string, docs map[string]domain.Document) error {
	if fieldName == "" {
		return fmt.Errorf("index field cannot be empty")
	}
	if _, exists := ie.indexes[fieldName]; exists {
		return fmt.Errorf("index on field %s already exists", fieldName)
	}

	index := NewIndex(fieldName)
	index.BuildIndex(docs)
	ie.indexes[fieldName] = index
	return nil
}

// DropIndex removes the index on a field
func (ie *IndexEngine) DropIndex(fieldName string) error {
	if _, exists := ie.indexes[fieldName]; !exists {
		return fmt.Errorf("index on field %s does not exist", fieldName)
	}
	delete(ie.indexes, fieldName)
	return nil
}

// GetIndexes returns the indexed field names in sorted order
func (ie *IndexEngine) GetIndexes() []string {
	names := make([]string, 0, len(ie.indexes))
	for fieldName := range ie.indexes {
		names = append(names, fieldName)
	}
	sort.Strings(names)
	return names
}

// GetIndex returns the index on a field, if any
func (ie *IndexEngine) GetIndex(fieldName string) (*Index, bool) {
	index, exists := ie.indexes[fieldName]
	return index, exists
}

// Rebuild rebuilds every index from docs, used after loading from disk
func (ie *IndexEngine) Rebuild(docs map[string]domain.Document) {
	for _, index := range ie.indexes {
		index.BuildIndex(docs)
	}
}

// UpdateIndexForDocument updates all indexes when a document changes
func (ie *IndexEngine) UpdateIndexForDocument(docID string, oldDoc, newDoc domain.Document) {
	for _, index := range ie.indexes {
		index.UpdateIndex(docID, oldDoc, newDoc)
	}
}

// Candidates intersects the index hits of every filter field that has an
// index. useIndex is false when no filter field is indexed.
func (ie *IndexEngine) Candidates(filter map[string]interface{}) (ids []string, useIndex bool) {
	var results [][]string
	for fieldName, value := range filter {
		if index, exists := ie.indexes[fieldName]; exists {
			results = append(results, index.Query(value))
		}
	}
	if len(results) == 0 {
		return nil, false
	}
	return IntersectStringSlices(results...), true
}

// IntersectStringSlices returns the intersection of multiple string slices
func IntersectStringSlices(slices ...[]string) []string {
	if len(slices) == 0 {
		return nil
	}
	if len(slices) == 1 {
		return slices[0]
	}

	countMap := make(map[string]int)
	for _, slice := range slices {
		for _, id := range slice {
			countMap[id]++
		}
	}

	var result []string
	expectedCount := len(slices)
	for id, count := range countMap {
		if count == expectedCount {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}
