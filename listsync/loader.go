package listsync

import (
	"context"
	"errors"
	"sync"
)

// ErrExhausted is returned once the server has reported there is nothing more to load.
var ErrExhausted = errors.New("no more items to load")

// Keyed is implemented by records with a stable id.
type Keyed interface {
	ItemKey() string
}

// Page is one batch returned by an offset/limit endpoint.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// FetchPage loads the batch starting at offset.
type FetchPage[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// Loader implements "load more" over an offset/limit endpoint. Batches are
// appended with de-duplication by id. While a fetch is in flight a second
// trigger is refused, and once the server reports no more items every
// further trigger is refused without a request.
type Loader[T Keyed] struct {
	mu       sync.Mutex
	fetch    FetchPage[T]
	limit    int
	offset   int
	items    []T
	seen     map[string]struct{}
	hasMore  bool
	inFlight bool
	gen      uint64
}

// NewLoader creates a Loader with the given batch size.
func NewLoader[T Keyed](limit int, fetch FetchPage[T]) *Loader[T] {
	if limit <= 0 {
		limit = 20
	}
	return &Loader[T]{
		fetch:   fetch,
		limit:   limit,
		seen:    make(map[string]struct{}),
		hasMore: true,
	}
}

// LoadMore fetches the next batch and returns how many new items it added.
func (l *Loader[T]) LoadMore(ctx context.Context) (int, error) {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return 0, ErrInFlight
	}
	if !l.hasMore {
		l.mu.Unlock()
		return 0, ErrExhausted
	}
	l.inFlight = true
	offset, gen := l.offset, l.gen
	l.mu.Unlock()

	page, err := l.fetch(ctx, offset, l.limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// Reset while we were waiting; the batch belongs to stale filters.
		return 0, context.Canceled
	}
	l.inFlight = false
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	added := 0
	for _, it := range page.Items {
		key := it.ItemKey()
		if _, dup := l.seen[key]; dup {
			continue
		}
		l.seen[key] = struct{}{}
		l.items = append(l.items, it)
		added++
	}
	l.offset += l.limit
	l.hasMore = page.HasMore
	return added, nil
}

// Reset drops every loaded item and starts again from offset 0.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.items = nil
	l.seen = make(map[string]struct{})
	l.offset = 0
	l.hasMore = true
	l.inFlight = false
}

// Items returns a copy of everything loaded so far.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// HasMore reports whether the load-more control should be shown.
func (l *Loader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Loading reports whether a fetch is in flight.
func (l *Loader[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Offset returns the offset the next fetch will use.
func (l *Loader[T]) Offset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offset
}
