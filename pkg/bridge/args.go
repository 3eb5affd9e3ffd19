package bridge

import (
	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Args is the string-keyed property bag a call carries.
type Args map[string]interface{}

// String returns a required string argument
func (a Args) String(method, key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", missing(method, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", wrongType(method, key, "string", raw)
	}
	return s, nil
}

// Bool returns a required boolean argument
func (a Args) Bool(method, key string) (bool, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return false, missing(method, key)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, wrongType(method, key, "bool", raw)
	}
	return b, nil
}

// Map returns a required property bag argument
func (a Args) Map(method, key string) (map[string]interface{}, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return nil, missing(method, key)
	}
	switch m := raw.(type) {
	case map[string]interface{}:
		return m, nil
	case domain.Document:
		return m, nil
	default:
		return nil, wrongType(method, key, "object", raw)
	}
}

func missing(method, key string) error {
	return domain.Errorf(domain.KindInvalidArgument, method, "missing argument %q", key)
}

func wrongType(method, key, want string, got interface{}) error {
	return domain.Errorf(domain.KindInvalidArgument, method, "argument %q must be a %s, got %T", key, want, got)
}
