package listsync

import (
	"context"
	"sync"

	"brickvault/models"
)

// FetchNumbered loads one numbered page.
type FetchNumbered[T any] func(ctx context.Context, page int) ([]T, models.Pagination, error)

// Pager implements page-number pagination: every page change replaces the
// items wholesale. The pagination values always come from the server. Only
// the most recently issued load is applied; an older one finishing later is
// discarded.
type Pager[T any] struct {
	mu         sync.Mutex
	fetch      FetchNumbered[T]
	items      []T
	pagination models.Pagination
	loaded     bool
	gen        uint64

	// OnReplace runs after a page was loaded, with the new items. It must not
	// call back into the Pager.
	OnReplace func(items []T)
}

// NewPager creates a Pager.
func NewPager[T any](fetch FetchNumbered[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// Load fetches page (1-based; smaller values mean 1). On failure the current
// items stay in place. A load overtaken by a later call returns
// context.Canceled and changes nothing.
func (p *Pager[T]) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	items, pagination, err := p.fetch(ctx, page)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return context.Canceled
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if pagination.CurrentPage == 0 {
		pagination.CurrentPage = page
	}
	p.items = items
	p.pagination = pagination
	p.loaded = true
	// under the lock so replacements reach OnReplace in issue order
	if p.OnReplace != nil {
		p.OnReplace(items)
	}
	p.mu.Unlock()
	return nil
}

// Items returns the current page.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Pagination returns the server's paging values for the current page.
func (p *Pager[T]) Pagination() models.Pagination {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pagination
}

// Loaded reports whether any page was loaded yet.
func (p *Pager[T]) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}
