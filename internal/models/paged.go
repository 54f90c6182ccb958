package models

// PagedResult is one page of an ordered collection. Page is zero-based and
// always within [0, TotalPages) when TotalPages > 0; an empty collection has
// TotalPages 0 and Page 0.
type PagedResult[T any] struct {
	Items      []T
	Page       int
	TotalPages int
}

// NewPagedResult builds a PagedResult, normalising whatever the service reported
func NewPagedResult[T any](items []T, page, totalPages int) PagedResult[T] {
	if totalPages <= 0 {
		if len(items) == 0 {
			return PagedResult[T]{Items: items}
		}
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	return PagedResult[T]{Items: items, Page: page, TotalPages: totalPages}
}

func (p PagedResult[T]) Empty() bool   { return len(p.Items) == 0 }
func (p PagedResult[T]) HasPrev() bool { return p.Page > 0 }
func (p PagedResult[T]) HasNext() bool { return p.Page+1 < p.TotalPages }

// PageWindow returns up to width consecutive page indices centred on the
// current page, used for numbered pagination controls.
func (p PagedResult[T]) PageWindow(width int) []int {
	if p.TotalPages <= 0 || width <= 0 {
		return nil
	}
	if width > p.TotalPages {
		width = p.TotalPages
	}
	start := p.Page - width/2
	if start < 0 {
		start = 0
	}
	if start+width > p.TotalPages {
		start = p.TotalPages - width
	}
	window := make([]int, width)
	for i := range window {
		window[i] = start + i
	}
	return window
}
