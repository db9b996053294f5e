package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput wraps top-level lists as {"items": [...]} so JSON
// output always has an object at the root.
func normalizeJSONOutput(v any) any {
	items, ok := listItems(v)
	if !ok {
		return v
	}
	return map[string]any{"items": items}
}

// listItems reports whether v is a list and returns it, with nil slices
// coerced to an empty one so they encode as [] rather than null.
func listItems(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}, true
	}
	return rv.Interface(), true
}

// splitRecords returns the elements of a list for line-per-record output.
func splitRecords(v any) []any {
	items, ok := listItems(v)
	if !ok {
		return []any{v}
	}
	rv := reflect.ValueOf(items)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
