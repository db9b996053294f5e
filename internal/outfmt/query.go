// internal/outfmt/query.go
package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/storedash/storedash-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a JQ query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the JQ query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// ApplyQuery normalizes v and applies a JQ query to it.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if query == "" {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return filter.ApplyFromJSON(data, query)
}

// ApplyQueryJSON is ApplyQuery with the result decoded back from JSON, so
// templates address fields by their wire names whether or not a query ran.
func ApplyQueryJSON(v any, query string) (any, error) {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// WriteJSONFiltered writes JSON with optional JQ filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

// WriteJSONLines writes each record of v on its own line. The query, when
// set, runs against each record.
func WriteJSONLines(w io.Writer, v any, query string) error {
	for _, record := range splitRecords(v) {
		out := record
		if query != "" {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if out, err = filter.ApplyFromJSON(data, query); err != nil {
				return err
			}
		}
		if err := WriteJSONMaybeCompact(w, out, true); err != nil {
			return err
		}
	}
	return nil
}
