// Package resolve matches user-typed names against loaded records, for
// `--category Gold` style flags and list `--search`.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named represents any resource with an ID and display name.
type Named struct {
	ID   int
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    int
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

// NotFoundError reports a name that matched nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match found for %q", e.Query)
}

type lowerSource []string

func (s lowerSource) String(i int) string { return strings.ToLower(s[i]) }
func (s lowerSource) Len() int            { return len(s) }

func names(items []Named) lowerSource {
	out := make(lowerSource, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

// ID finds the item whose name best matches query and returns its ID.
// A numeric query is taken as an ID when an item carries it. Exact
// case-insensitive names win over fuzzy matches, and a tie between the top
// two fuzzy results is an *AmbiguousError.
func ID(query string, items []Named) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}
	if len(items) == 0 {
		return 0, ErrEmptyItems
	}

	for _, item := range items {
		if fmt.Sprint(item.ID) == query || strings.EqualFold(item.Name, query) {
			return item.ID, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), names(items))
	if len(results) == 0 {
		return 0, &NotFoundError{Query: query}
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return 0, &AmbiguousError{
			Query:   query,
			Matches: buildMatches(items, results, 5),
		}
	}
	return items[results[0].Index].ID, nil
}

// Rank returns up to limit matches ranked by score (best first).
func Rank(query string, items []Named, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 || limit <= 0 {
		return nil
	}
	return buildMatches(items, fuzzy.FindFrom(strings.ToLower(query), names(items)), limit)
}

// Search keeps the records whose name fuzzy-matches query, best match
// first. An empty query returns records unchanged.
func Search[T any](query string, records []T, name func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}
	src := make(lowerSource, len(records))
	for i, r := range records {
		src[i] = name(r)
	}
	results := fuzzy.FindFrom(strings.ToLower(query), src)
	out := make([]T, 0, len(results))
	for _, m := range results {
		out = append(out, records[m.Index])
	}
	return out
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:    items[r.Index].ID,
			Name:  items[r.Index].Name,
			Score: r.Score,
		}
	}
	return matches
}
