// Package directory provides filtering and pagination helpers for the
// listing and admin commands.
package directory

import "strings"

// DefaultPageSize is the number of rows shown per page in listings.
const DefaultPageSize = 10

// Page is one window of a filtered result set.
type Page[T any] struct {
	Items      []T
	PageNumber int // 1-based
	TotalPages int
	TotalItems int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.PageNumber < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.PageNumber > 1 }

// Filter returns the items whose searchable text contains the query,
// case-insensitively. An empty query returns all items. The text function
// supplies the searchable representation of an item.
func Filter[T any](items []T, query string, text func(T) string) []T {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var out []T
	for _, item := range items {
		if strings.Contains(strings.ToLower(text(item)), q) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate slices items into the requested 1-based page. Page numbers out
// of range are clamped; an empty input yields a single empty page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		PageNumber: page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
