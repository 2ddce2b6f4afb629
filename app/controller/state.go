package controller

import (
	"maps"
	"sync"

	"brickvault/listsync"
	"brickvault/service"
)

// Session keys of the per-page view state
const (
	keyHome        = "home"
	keyCollection  = "collection"
	keyCollapsed   = "collection_collapsed"
	keyWishlist    = "wishlist"
	keyUserSets    = "user_sets"
	keyThemeFeed   = "theme_feed"
	keySearch      = "search"
	keyPrices      = "prices"
	keyShowPrices  = "show_prices"
	keyAdminUsers  = "admin_users"
	keyUserFilters = "admin_user_filters"
	keyTrophies    = "admin_trophies"
	keyLogs        = "admin_logs"
	keyLogFilters  = "admin_log_filters"
)

// listKeys are the keys the list controller may act on, with the page each
// one redirects back to when the form carries no return_to
var listKeys = map[string]string{
	keyHome:       "/",
	keyCollection: "/collection",
	keyWishlist:   "/wishlist",
	keyUserSets:   "/",
	keyThemeFeed:  "/themes",
	keySearch:     "/search",
	keyPrices:     "/prices",
}

// searchState is a search result list and the query it belongs to
type searchState struct {
	Query string
	*listsync.PagedList
}

// themeState is the "load more" list of one theme's sets
type themeState struct {
	ThemeID int
	*listsync.Feed
}

// listFrom finds the set list inside a stored page state
func listFrom(v any) *listsync.List {
	switch s := v.(type) {
	case *listsync.List:
		return s
	case *service.CollectionPage:
		return s.List
	case *service.UserSetsPage:
		return s.List
	case *service.HomePage:
		return s.Latest
	case *searchState:
		return s.List
	case *themeState:
		return s.List
	}
	return nil
}

// collapsedGroups is the per-theme collapsed flag of the grouped collection
type collapsedGroups struct {
	mu sync.Mutex
	m  map[int]bool
}

func newCollapsedGroups() *collapsedGroups {
	return &collapsedGroups{m: make(map[int]bool)}
}

// Toggle flips the flag of a theme and returns the new value
func (c *collapsedGroups) Toggle(themeID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[themeID] = !c.m[themeID]
	return c.m[themeID]
}

// Snapshot returns a copy of every flag
func (c *collapsedGroups) Snapshot() map[int]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.m)
}
