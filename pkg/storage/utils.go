package storage

import (
	"github.com/adfharrison1/go-docsync/pkg/domain"
	"github.com/adfharrison1/go-docsync/pkg/indexing"
)

// MatchesFilter checks if a document matches every property == value pair
func MatchesFilter(doc domain.Document, filter map[string]interface{}) bool {
	for field, expectedValue := range filter {
		actualValue, exists := doc[field]
		if !exists {
			return false
		}

		if !ValuesMatch(actualValue, expectedValue) {
			return false
		}
	}
	return true
}

// ValuesMatch compares two scalar values for equality. Numbers compare by
// value across numeric types; strings compare exactly. Nulls, maps and lists
// never match, the same values the equality index cannot hold.
func ValuesMatch(actual, expected interface{}) bool {
	actualKey, ok1 := indexing.Key(actual)
	expectedKey, ok2 := indexing.Key(expected)
	if !ok1 || !ok2 {
		return false
	}
	return actualKey == expectedKey
}
