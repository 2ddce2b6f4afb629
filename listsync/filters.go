package listsync

import (
	"maps"
	"net/url"
	"sort"
	"strconv"
	"sync"
)

// Unconstrained reports whether a filter value places no constraint.
func Unconstrained(v string) bool {
	return v == "" || v == "all"
}

// Filters holds the filter fields of a screen plus its page cursor.
// Changing any field moves the cursor back to page 1.
type Filters struct {
	mu     sync.Mutex
	values map[string]string
	page   int
}

// NewFilters creates Filters starting at page 1.
func NewFilters(defaults map[string]string) *Filters {
	values := make(map[string]string, len(defaults))
	maps.Copy(values, defaults)
	return &Filters{values: values, page: 1}
}

// Set changes one field. It reports whether the value changed; when it did,
// the page is reset to 1.
func (f *Filters) Set(field, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[field] == value {
		return false
	}
	f.values[field] = value
	f.page = 1
	return true
}

// Apply sets several fields at once, resetting the page if any changed.
func (f *Filters) Apply(values map[string]string) bool {
	changed := false
	for _, k := range sortedKeys(values) {
		if f.Set(k, values[k]) {
			changed = true
		}
	}
	return changed
}

// Get returns the value of field.
func (f *Filters) Get(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every field.
func (f *Filters) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values)
}

// Page returns the current page.
func (f *Filters) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// SetPage moves the cursor; values below 1 mean 1.
func (f *Filters) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.page = page
}

// Reset clears every field and returns to page 1.
func (f *Filters) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.values)
	f.page = 1
}

// Query encodes the constrained fields and the page for an API request.
func (f *Filters) Query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := url.Values{}
	for k, v := range f.values {
		if !Unconstrained(v) {
			q.Set(k, v)
		}
	}
	q.Set("page", strconv.Itoa(f.page))
	return q
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
