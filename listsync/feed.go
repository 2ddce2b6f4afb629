package listsync

import (
	"context"

	"brickvault/models"
)

// Feed is a "load more" set list: a Loader that fetches batches and the
// List that holds selection and feedback for everything loaded so far.
type Feed struct {
	Loader *Loader[models.Set]
	List   *List
}

// NewFeed creates an empty Feed. Nothing is fetched until LoadMore.
func NewFeed(limit int, fetch FetchPage[models.Set], opts Options) *Feed {
	return &Feed{
		Loader: NewLoader(limit, fetch),
		List:   New(nil, opts),
	}
}

// LoadMore fetches the next batch and appends it to the list.
func (f *Feed) LoadMore(ctx context.Context) (int, error) {
	n, err := f.Loader.LoadMore(ctx)
	if err != nil {
		return 0, err
	}
	f.List.Append(f.Loader.Items())
	return n, nil
}

// Reset drops everything loaded so the next LoadMore starts from offset 0.
func (f *Feed) Reset() {
	f.Loader.Reset()
	f.List.Replace(nil)
}

// Close stops the list's feedback timers.
func (f *Feed) Close() {
	f.List.Close()
}

// PagedList is a page-number set list: each page replaces the list's items
// and closes any open selection.
type PagedList struct {
	Pager *Pager[models.Set]
	List  *List
}

// NewPagedList creates an empty PagedList.
func NewPagedList(fetch FetchNumbered[models.Set], opts Options) *PagedList {
	p := &PagedList{
		Pager: NewPager(fetch),
		List:  New(nil, opts),
	}
	p.Pager.OnReplace = p.List.Replace
	return p
}

// Load fetches page and replaces the list's items with it.
func (p *PagedList) Load(ctx context.Context, page int) error {
	return p.Pager.Load(ctx, page)
}

// Close stops the list's feedback timers.
func (p *PagedList) Close() {
	p.List.Close()
}
