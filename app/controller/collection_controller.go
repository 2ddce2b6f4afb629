package controller

import (
	"net/http"
	"strconv"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/service"
	"brickvault/session"
)

// CollectionController handles the signed-in user's collection and
// wishlist, and other users' public collections
type CollectionController struct {
	*Renderer
	collection *service.CollectionService
}

// NewCollectionController creates a new CollectionController
func NewCollectionController(renderer *Renderer, collection *service.CollectionService) *CollectionController {
	return &CollectionController{Renderer: renderer, collection: collection}
}

// groupView is one theme section of the grouped collection
type groupView struct {
	listsync.Group
	Sets setListView
}

type collectionView struct {
	Sets            setListView
	Sort            string
	Grouped         bool
	Groups          []groupView
	FavoriteThemeID int
	Stats           models.CollectionStats
	Themes          []models.Theme // distinct themes present, for the favorite picker
}

// Collection handles GET /collection?sort=name_asc&group=theme
func (c *CollectionController) Collection(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	ctx := r.Context()

	page, ok := stored[*service.CollectionPage](sess, keyCollection)
	if !ok || r.URL.Query().Has("refresh") {
		loaded, err := c.collection.LoadCollection(ctx, auth.UserID())
		if err != nil {
			c.fail(w, r, "Collection", err)
			return
		}
		sess.Store(keyCollection, loaded)
		page = loaded
	}

	q := r.URL.Query()
	spec := listsync.ParseSort(q.Get("sort"))
	view := page.List.Snapshot()
	collapsed := session.State(sess, keyCollapsed, newCollapsedGroups)
	favorite := c.collection.FavoriteTheme(ctx, auth.UserID())

	data := collectionView{
		Sort:            spec.String(),
		Grouped:         q.Get("group") == "theme",
		FavoriteThemeID: favorite,
		Stats:           view.Stats,
		Themes:          themesIn(view.Items),
	}
	back := r.URL.RequestURI()
	if data.Grouped {
		for _, g := range listsync.GroupByTheme(view.Items, spec, favorite, collapsed.Snapshot()) {
			gv := view
			gv.Items = g.Items
			data.Groups = append(data.Groups, groupView{Group: g, Sets: setListView{Key: keyCollection, View: gv, ReturnTo: back}})
		}
	} else {
		view.Items = listsync.Sort(view.Items, spec)
	}
	data.Sets = setListView{Key: keyCollection, View: view, ReturnTo: back}

	c.render(w, r, "collection", "My collection", data)
}

// themesIn returns the distinct themes of items, ordered by name
func themesIn(items []models.Set) []models.Theme {
	groups := listsync.GroupByTheme(items, listsync.SortSpec{Field: listsync.SortName}, 0, nil)
	out := make([]models.Theme, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.Theme{ID: g.ThemeID, Name: g.ThemeName, SetCount: len(g.Items)})
	}
	return out
}

// ToggleGroup handles POST /collection/groups/{themeID}/toggle
func (c *CollectionController) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	themeID, err := pathInt(r, "themeID")
	if err != nil {
		c.notFound(w, r)
		return
	}
	sess := sessionOf(r)
	collapsed := session.State(sess, keyCollapsed, newCollapsedGroups).Toggle(themeID)
	c.finish(w, r, "ToggleGroup", backTo(r, "/collection?group=theme"), nil, "", map[string]any{
		"themeId":   themeID,
		"collapsed": collapsed,
	})
}

// Favorite handles POST /collection/favorite (theme_id; 0 clears)
func (c *CollectionController) Favorite(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	themeID, err := strconv.Atoi(r.FormValue("theme_id"))
	if err != nil || themeID < 0 {
		themeID = 0
	}
	err = c.collection.SetFavoriteTheme(r.Context(), auth.UserID(), themeID)
	c.finish(w, r, "FavoriteTheme", backTo(r, "/collection?group=theme"), err, "Favorite theme saved.", nil)
}

type wishlistView struct {
	Sets setListView
}

// Wishlist handles GET /wishlist
func (c *CollectionController) Wishlist(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)

	list, ok := stored[*listsync.List](sess, keyWishlist)
	if !ok || r.URL.Query().Has("refresh") {
		loaded, err := c.collection.LoadWishlist(r.Context())
		if err != nil {
			c.fail(w, r, "Wishlist", err)
			return
		}
		sess.Store(keyWishlist, loaded)
		list = loaded
	}

	view := list.Snapshot()
	view.Items = listsync.Sort(view.Items, listsync.ParseSort(r.URL.Query().Get("sort")))
	c.render(w, r, "wishlist", "My wishlist", wishlistView{
		Sets: setListView{Key: keyWishlist, View: view, ReturnTo: r.URL.RequestURI()},
	})
}

type userSetsView struct {
	Owner *models.User
	Sets  setListView
	Sort  string
}

// UserSets handles GET /users/{username}/sets
func (c *CollectionController) UserSets(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	sess, auth, r := apiContext(r)
	if auth.SignedIn() && auth.User.Username == username {
		http.Redirect(w, r, "/collection", http.StatusSeeOther)
		return
	}

	page, ok := stored[*service.UserSetsPage](sess, keyUserSets)
	if !ok || page.Owner == nil || page.Owner.Username != username || r.URL.Query().Has("refresh") {
		loaded, err := c.collection.LoadUserSets(r.Context(), username, auth.SignedIn())
		if err != nil {
			c.fail(w, r, "UserSets", err)
			return
		}
		sess.Store(keyUserSets, loaded)
		page = loaded
	}

	spec := listsync.ParseSort(r.URL.Query().Get("sort"))
	view := page.List.Snapshot()
	view.Items = listsync.Sort(view.Items, spec)
	c.render(w, r, "user_sets", page.Owner.Username+"'s collection", userSetsView{
		Owner: page.Owner,
		Sets:  setListView{Key: keyUserSets, View: view, ReturnTo: r.URL.RequestURI()},
		Sort:  spec.String(),
	})
}
