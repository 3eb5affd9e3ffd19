package storage

import (
	"testing"

	"github.com/adfharrison1/go-docsync/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMatchesFilter(t *testing.T) {
	doc := domain.Document{"name": "Alice", "age": 30, "city": "New York"}
	assert.True(t, MatchesFilter(doc, map[string]interface{}{"name": "Alice"}))
	assert.True(t, MatchesFilter(doc, map[string]interface{}{"age": 30.0}))
	assert.True(t, MatchesFilter(doc, map[string]interface{}{"name": "Alice", "age": 30}))
	assert.True(t, MatchesFilter(doc, nil))
	assert.False(t, MatchesFilter(doc, map[string]interface{}{"name": "Bob"}))
	assert.False(t, MatchesFilter(doc, map[string]interface{}{"country": "USA"}))
}

func TestValuesMatch(t *testing.T) {
	tests := []struct {
		name     string
		actual   interface{}
		expected interface{}
		want     bool
	}{
		{"equal strings", "Alice", "Alice", true},
		{"strings are case sensitive", "Alice", "alice", false},
		{"int and float", 42, 42.0, true},
		{"int64 and int", int64(7), 7, true},
		{"different numbers", 42, 43, false},
		{"number vs numeric string", 5, "5", false},
		{"nulls never match", nil, nil, false},
		{"nil vs value", nil, 1, false},
		{"bools", true, true, true},
		{"maps never match", map[string]interface{}{}, map[string]interface{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValuesMatch(tt.actual, tt.expected))
		})
	}
}
