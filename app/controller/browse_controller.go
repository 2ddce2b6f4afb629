package controller

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/service"
	"brickvault/session"
	"brickvault/utils"
)

// BrowseController handles the public catalogue screens
type BrowseController struct {
	*Renderer
	browse *service.BrowseService
}

// NewBrowseController creates a new BrowseController
func NewBrowseController(renderer *Renderer, browse *service.BrowseService) *BrowseController {
	return &BrowseController{Renderer: renderer, browse: browse}
}

// stored returns the state of type T under key
func stored[T any](sess *session.Session, key string) (T, bool) {
	v, _ := sess.Load(key)
	t, ok := v.(T)
	return t, ok
}

// setListView is what every set grid template receives
type setListView struct {
	Key      string // session key, used in form actions
	View     listsync.View
	ReturnTo string
}

type homeView struct {
	Latest setListView
	Themes []models.Theme
}

// Home handles GET /
func (c *BrowseController) Home(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)

	home, ok := stored[*service.HomePage](sess, keyHome)
	if !ok || r.URL.Query().Has("refresh") {
		page, err := c.browse.Home(r.Context(), auth.SignedIn())
		if err != nil {
			c.fail(w, r, "Home", err)
			return
		}
		sess.Store(keyHome, page)
		home = page
	}

	c.render(w, r, "home", "BrickVault", homeView{
		Latest: setListView{Key: keyHome, View: home.Latest.Snapshot(), ReturnTo: "/"},
		Themes: rootThemes(home.Themes),
	})
}

func rootThemes(themes []models.Theme) []models.Theme {
	out := make([]models.Theme, 0, len(themes))
	for _, t := range themes {
		if t.IsRoot() {
			out = append(out, t)
		}
	}
	return out
}

// Themes handles GET /themes
func (c *BrowseController) Themes(w http.ResponseWriter, r *http.Request) {
	themes, err := c.browse.Themes(r.Context())
	if err != nil {
		c.fail(w, r, "Themes", err)
		return
	}
	c.render(w, r, "themes", "Themes", rootThemes(themes))
}

type themeView struct {
	Theme     *models.Theme
	SubThemes []models.Theme
	Sets      setListView
	HasMore   bool
	Loading   bool
}

// Theme handles GET /themes/{id}: the theme, its sub-themes and the first
// batch of its sets. Further batches come from LoadMore.
func (c *BrowseController) Theme(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	sess, auth, r := apiContext(r)

	page, err := c.browse.Theme(r.Context(), id)
	if err != nil {
		c.fail(w, r, "Theme", err)
		return
	}

	st, ok := stored[*themeState](sess, keyThemeFeed)
	if !ok || st.ThemeID != id {
		st = &themeState{ThemeID: id, Feed: c.browse.ThemeFeed(id, auth.SignedIn())}
		sess.Store(keyThemeFeed, st)
		if _, err := st.LoadMore(r.Context()); err != nil {
			sess.Delete(keyThemeFeed)
			c.fail(w, r, "Theme", err)
			return
		}
	}

	back := r.URL.Path
	c.render(w, r, "theme", page.Theme.Name, themeView{
		Theme:     page.Theme,
		SubThemes: page.SubThemes,
		Sets:      setListView{Key: keyThemeFeed, View: st.List.Snapshot(), ReturnTo: back},
		HasMore:   st.Loader.HasMore(),
		Loading:   st.Loader.Loading(),
	})
}

// LoadMore handles POST /themes/{id}/more
func (c *BrowseController) LoadMore(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	sess, _, r := apiContext(r)
	back := "/themes/" + r.PathValue("id")

	st, ok := stored[*themeState](sess, keyThemeFeed)
	if !ok || st.ThemeID != id {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	n, err := st.LoadMore(r.Context())
	zap.S().Debugf("LoadMore: theme=%d added=%d", id, n)
	c.finish(w, r, "ThemeLoadMore", back, err, "", map[string]any{
		"added":   n,
		"hasMore": st.Loader.HasMore(),
		"list":    st.List.Snapshot(),
	})
}

type searchView struct {
	Query      string
	Results    setListView
	Pagination models.Pagination
	Loaded     bool
}

// Search handles GET /search?q=...&page=N. A page change replaces the
// results; revisiting the same page keeps the current selection.
func (c *BrowseController) Search(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		sess.Delete(keySearch)
		c.render(w, r, "search", "Search", searchView{})
		return
	}

	page := queryPage(r)
	st, ok := stored[*searchState](sess, keySearch)
	if !ok || st.Query != query {
		st = &searchState{Query: query, PagedList: c.browse.Search(query, auth.SignedIn())}
		sess.Store(keySearch, st)
	}
	if !st.Pager.Loaded() || st.Pager.Pagination().CurrentPage != page {
		if err := st.Load(r.Context(), page); err != nil && !superseded(r, err) {
			c.fail(w, r, "Search", err)
			return
		}
	}

	c.render(w, r, "search", "Search: "+query, searchView{
		Query:      query,
		Results:    setListView{Key: keySearch, View: st.List.Snapshot(), ReturnTo: r.URL.RequestURI()},
		Pagination: st.Pager.Pagination(),
		Loaded:     true,
	})
}

// SetDetail handles GET /sets/{setNum}
func (c *BrowseController) SetDetail(w http.ResponseWriter, r *http.Request) {
	setNum, ok := utils.NormalizeSetNum(r.PathValue("setNum"))
	if !ok {
		c.notFound(w, r)
		return
	}
	_, _, r = apiContext(r)
	detail, err := c.browse.SetDetail(r.Context(), setNum)
	if err != nil {
		c.fail(w, r, "SetDetail", err)
		return
	}
	c.render(w, r, "set", detail.Name, detail)
}
