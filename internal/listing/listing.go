// Package listing pages, filters and searches records that were loaded in
// full. The dashboard endpoints return every record in one response, so
// pagination happens client-side.
package listing

import (
	"fmt"
	"strings"

	"github.com/storedash/storedash-cli/internal/resolve"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// Options selects a page of records.
type Options struct {
	Page     int
	PageSize int
	// All disables paging and returns every matching record.
	All bool
	// Status keeps records whose status label equals it, ignoring case.
	Status string
	// Search keeps records whose name fuzzy-matches it, best match first.
	Search string
}

// Validate reports out-of-range paging values.
func (o Options) Validate() error {
	if o.All {
		return nil
	}
	if o.Page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		return fmt.Errorf("limit must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// Accessors tell Apply how to read a record.
type Accessors[T any] struct {
	Name   func(T) string
	Status func(T) string
}

// Page is one page of results plus the counts needed to describe it.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	Matched  int  `json:"matched"`
	Pages    int  `json:"pages"`
	HasMore  bool `json:"has_more"`
}

// Apply filters records by status, then by search, then cuts the requested
// page. Records keep their server order unless a search reorders them.
func Apply[T any](records []T, opts Options, acc Accessors[T]) (Page[T], error) {
	if err := opts.Validate(); err != nil {
		return Page[T]{}, err
	}

	matched := records
	if status := strings.TrimSpace(opts.Status); status != "" && acc.Status != nil {
		kept := make([]T, 0, len(matched))
		for _, r := range matched {
			if strings.EqualFold(acc.Status(r), status) {
				kept = append(kept, r)
			}
		}
		matched = kept
	}
	if opts.Search != "" && acc.Name != nil {
		matched = resolve.Search(opts.Search, matched, acc.Name)
	}

	page := Page[T]{Total: len(records), Matched: len(matched)}
	if opts.All {
		page.Items = matched
		page.Page, page.PageSize, page.Pages = 1, len(matched), 1
	} else {
		page.Page, page.PageSize = opts.Page, opts.PageSize
		page.Pages = (len(matched) + opts.PageSize - 1) / opts.PageSize
		start := (opts.Page - 1) * opts.PageSize
		end := min(start+opts.PageSize, len(matched))
		if start < len(matched) {
			page.Items = matched[start:end]
		}
		page.HasMore = end < len(matched)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
