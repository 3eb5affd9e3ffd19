package domain

// Predicate is an equality test on a top-level document property.
type Predicate struct {
	Property string
	Value    interface{}
}

// Query selects every property plus the document id from one database,
// optionally restricted by equality predicates joined with AND.
type Query struct {
	From  string
	Where []Predicate
}

// SelectAll starts a query over the named database.
func SelectAll(from string) *Query {
	return &Query{From: from}
}

// WhereEquals adds a property == value predicate.
func (q *Query) WhereEquals(property string, value interface{}) *Query {
	q.Where = append(q.Where, Predicate{Property: property, Value: value})
	return q
}

// Filter returns the predicates as a property -> value map.
func (q *Query) Filter() map[string]interface{} {
	if len(q.Where) == 0 {
		return nil
	}
	filter := make(map[string]interface{}, len(q.Where))
	for _, p := range q.Where {
		filter[p.Property] = p.Value
	}
	return filter
}
