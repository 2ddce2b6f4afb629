package service

import (
	"bytes"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/templates"
)

func newTestRenderer(t *testing.T) *RenderService {
	t.Helper()
	r, err := NewRenderService(templates.Files)
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *RenderService, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, Page{Title: "Test", Path: "/test", Currency: "EUR", Data: data}))
	return buf.String()
}

func TestRenderServiceParsesEveryPage(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range []string{
		"home", "themes", "theme", "search", "set", "collection", "wishlist", "user_sets",
		"prices", "price_compare", "blog", "post", "login", "profile", "confirm", "error",
		"admin_users", "admin_trophies", "admin_assign", "admin_logs", "admin_blog", "admin_editor",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))

	err := r.Render(&bytes.Buffer{}, "missing", Page{})
	assert.EqualError(t, err, `unknown page "missing"`)
}

func TestRenderSearchEmptyState(t *testing.T) {
	out := render(t, newTestRenderer(t), "search", map[string]any{
		"Query":   "zzzz",
		"Loaded":  true,
		"Results": map[string]any{"Key": "search", "View": listsync.View{}, "ReturnTo": "/search?q=zzzz"},
	})
	assert.Contains(t, out, "No sets found for “zzzz”.")
	assert.Contains(t, out, `<a href="/search">Clear search</a>`)
}

func TestRenderSetGridShowsSelectionAndFeedback(t *testing.T) {
	view := listsync.View{
		Items:     []models.Set{{SetNum: "10220-1", Name: "Volkswagen T1 Camper Van", Year: 2011, NumParts: 1334}},
		Selection: map[string]int{"10220-1": 2},
		Feedback:  map[string]listsync.Tag{"10220-1": listsync.TagCollection},
		CanMutate: true,
		Targets:   []listsync.Tag{listsync.TagCollection, listsync.TagWishlist},
	}
	out := render(t, newTestRenderer(t), "search", map[string]any{
		"Query":      "camper",
		"Loaded":     true,
		"Results":    map[string]any{"Key": "search", "View": view, "ReturnTo": "/search?q=camper"},
		"Pagination": models.Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 41},
	})
	assert.Contains(t, out, "1,334 pieces")
	assert.Contains(t, out, `value="2"`)
	assert.Contains(t, out, "Added to collection!")
	assert.Contains(t, out, `action="/lists/search/add"`)
	assert.Contains(t, out, `href="?page=2&amp;q=camper"`)
}

func TestRenderCollectionControls(t *testing.T) {
	view := listsync.View{
		Items:     []models.Set{{SetNum: "21318-1", Name: "Tree House", Quantity: 1, Complete: 1}},
		CanMutate: true,
	}
	sets := map[string]any{"Key": "collection", "View": view, "ReturnTo": "/collection"}
	out := render(t, newTestRenderer(t), "collection", map[string]any{
		"Sets":  sets,
		"Sort":  "name_asc",
		"Stats": models.CollectionStats{TotalSets: 1, TotalParts: 3036},
	})
	assert.Contains(t, out, `aria-label="One less" disabled`)
	assert.Contains(t, out, "✓ Complete")
	assert.Contains(t, out, `href="/lists/collection/remove?id=21318-1&amp;return_to=%2fcollection"`)
	assert.Contains(t, out, "<strong>3,036</strong> pieces")
}

func TestRenderCollectionPanelOffersOnlyWishlist(t *testing.T) {
	view := listsync.View{
		Items:     []models.Set{{SetNum: "21318-1", Name: "Tree House", Quantity: 2}},
		Selection: map[string]int{"21318-1": 1},
		CanMutate: true,
		Targets:   []listsync.Tag{listsync.TagWishlist},
	}
	out := render(t, newTestRenderer(t), "collection", map[string]any{
		"Sets":  map[string]any{"Key": "collection", "View": view, "ReturnTo": "/collection"},
		"Sort":  "name_asc",
		"Stats": models.CollectionStats{TotalSets: 2},
	})
	assert.Contains(t, out, `action="/lists/collection/select"`)
	assert.Contains(t, out, "Add to wishlist")
	assert.NotContains(t, out, "Add to collection")

	view.Targets = nil
	out = render(t, newTestRenderer(t), "wishlist", map[string]any{
		"Sets": map[string]any{"Key": "wishlist", "View": view, "ReturnTo": "/wishlist"},
	})
	assert.NotContains(t, out, `action="/lists/wishlist/select"`)
	assert.Contains(t, out, "Got it! Move to collection")
}

func TestRenderErrorPageOffersRetry(t *testing.T) {
	out := render(t, newTestRenderer(t), "error", map[string]any{
		"Message":  "Could not reach the server.",
		"RetryURL": "/themes/5",
	})
	assert.Contains(t, out, "Could not reach the server.")
	assert.Contains(t, out, `<a class="button" href="/themes/5">Try again</a>`)
}

func TestRenderExportGroupsByTheme(t *testing.T) {
	html, err := newTestRenderer(t).RenderExport(ExportSheet{
		Owner:       "brickfan",
		GeneratedAt: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		Stats:       models.CollectionStats{TotalSets: 3, TotalParts: 8875},
		Groups: []listsync.Group{
			{ThemeID: 2, ThemeName: "Star Wars", Items: []models.Set{{SetNum: "75192-1", Name: "Millennium Falcon", Quantity: 1}}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "brickfan's LEGO collection")
	assert.Contains(t, html, "Generated 9 March 2024 14:30")
	assert.Contains(t, html, "Star Wars (1)")
	assert.Contains(t, html, "8,875")
}

func TestPageRange(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, pageRange(1, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageRange(2, 10))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, pageRange(6, 10))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, pageRange(10, 10))
	assert.Nil(t, pageRange(1, 0))
}

func TestQueryHelpers(t *testing.T) {
	base := queryOf("q", "castle", "sort", "", "category")
	assert.Equal(t, url.Values{"q": {"castle"}}, base)

	assert.Equal(t, "?page=3&q=castle", withParam(base, "page", 3))
	assert.Equal(t, url.Values{"q": {"castle"}}, base, "base must not change")
}
