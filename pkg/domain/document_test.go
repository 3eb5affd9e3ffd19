package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := Document{
		"name": "Alice",
		"tags": []interface{}{"a", map[string]interface{}{"k": "v"}},
		"address": map[string]interface{}{
			"city": "Paris",
		},
	}

	clone := doc.Clone()
	assert.Equal(t, doc, clone)

	clone["address"].(map[string]interface{})["city"] = "Rome"
	clone["tags"].([]interface{})[1].(map[string]interface{})["k"] = "changed"

	assert.Equal(t, "Paris", doc["address"].(map[string]interface{})["city"])
	assert.Equal(t, "v", doc["tags"].([]interface{})[1].(map[string]interface{})["k"])
}

func TestDocument_WithoutMeta(t *testing.T) {
	doc := Document{MetaIDKey: "a", "type": "cat"}

	stripped := doc.WithoutMeta()
	assert.Equal(t, Document{"type": "cat"}, stripped)
	assert.Equal(t, "a", doc[MetaIDKey])
	assert.Nil(t, Document(nil).Clone())
}

func TestQuery_Filter(t *testing.T) {
	q := SelectAll("pets")
	assert.Nil(t, q.Filter())

	q.WhereEquals("type", "cat").WhereEquals("age", 3.0)
	assert.Equal(t, map[string]interface{}{"type": "cat", "age": 3.0}, q.Filter())
	assert.Equal(t, "pets", q.From)
}
