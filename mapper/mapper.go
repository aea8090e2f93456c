// Package mapper presents stored records in the public API shape: the
// internal id and timestamps are renamed to _id, _createdDate and
// _updatedDate and every other field passes through unchanged.
package mapper

import (
	"encoding/json"
	"reflect"
	"time"
)

const (
	IDKey      = "_id"
	CreatedKey = "_createdDate"
	UpdatedKey = "_updatedDate"
)

// Internal field names as stored records serialize them.
const (
	internalID      = "id"
	internalCreated = "createdAt"
	internalUpdated = "updatedAt"
)

// ISOLayout matches JavaScript's Date.prototype.toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Option adjusts a mapped record after the standard renames.
type Option func(out map[string]any)

// ISODate normalizes the named date field to ISOLayout in UTC. Values that
// are not dates are left as they are.
func ISODate(key string) Option {
	return func(out map[string]any) {
		v, ok := out[key]
		if !ok {
			return
		}
		if t, ok := asTime(v); ok {
			out[key] = t.UTC().Format(ISOLayout)
		}
	}
}

// ToAPI maps a record's fields. A nil map yields nil. The input is not modified.
func ToAPI(fields map[string]any, opts ...Option) map[string]any {
	if fields == nil {
		return nil
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case internalID:
			out[IDKey] = v
		case internalCreated:
			if !isZero(v) {
				out[CreatedKey] = v
			}
		case internalUpdated:
			if !isZero(v) {
				out[UpdatedKey] = v
			}
		default:
			out[k] = v
		}
	}

	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Document maps a stored struct (or pointer to one) through its JSON field
// names. A nil pointer yields nil.
func Document(v any, opts ...Option) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return ToAPI(fields, opts...), nil
}

// Documents maps a slice of stored records.
func Documents[T any](items []T, opts ...Option) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		m, err := Document(&items[i], opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0001-01-01T00:00:00Z"
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	}
	return false
}
