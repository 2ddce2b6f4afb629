package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"brickvault/listsync"
	"brickvault/session"
)

// ListController handles every interaction with a set list held in the
// session: selecting, choosing a pending quantity, adding, changing owned
// quantities, completion, removal and moving from wishlist to collection
type ListController struct {
	*Renderer
}

// NewListController creates a new ListController
func NewListController(renderer *Renderer) *ListController {
	return &ListController{Renderer: renderer}
}

// listState is the list stored under a session key
type listState struct {
	sess *session.Session
	key  string
	list *listsync.List
}

func (c *ListController) resolve(w http.ResponseWriter, r *http.Request) (*listState, bool) {
	key := r.PathValue("key")
	if _, ok := listKeys[key]; !ok {
		c.notFound(w, r)
		return nil, false
	}
	sess := sessionOf(r)
	v, _ := sess.Load(key)
	list := listFrom(v)
	if list == nil {
		// State expired with the session or was invalidated; send the
		// browser back to reload it.
		sess.AddFlash("info", "This list was reloaded. Please try again.")
		http.Redirect(w, r, backTo(r, listKeys[key]), http.StatusSeeOther)
		return nil, false
	}
	return &listState{sess: sess, key: key, list: list}, true
}

// Act handles POST /lists/{key}/{action}
// Form fields: id (set number), quantity, tag (collection|wishlist),
// confirm (yes, for remove), return_to
func (c *ListController) Act(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	zap.S().Debugf("📥 ListAct: %s %s", r.PathValue("key"), action)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	st, ok := c.resolve(w, r)
	if !ok {
		return
	}
	sess, auth, r := apiContext(r)
	ctx := r.Context()
	id := r.FormValue("id")
	back := backTo(r, listKeys[st.key])

	var err error
	var success string
	switch action {
	case "select":
		err = st.list.ToggleSelect(id)
	case "quantity":
		// pending quantity of an open panel; invalid input is ignored
		st.list.SetQuantity(id, r.FormValue("quantity"))
	case "add":
		tag := listsync.Tag(r.FormValue("tag"))
		var ids []string
		if id != "" {
			ids = []string{id}
		}
		err = st.list.Add(ctx, tag, ids...)
		if err == nil {
			invalidateDestination(sess, tag)
			success = addedMessage(tag)
		}
	case "owned":
		n, convErr := strconv.Atoi(r.FormValue("quantity"))
		if convErr != nil {
			err = listsync.ErrInvalidQuantity
			break
		}
		err = st.list.UpdateOwnedQuantity(ctx, id, n)
	case "increment":
		err = st.list.Increment(ctx, id)
	case "decrement":
		err = st.list.Decrement(ctx, id)
	case "complete":
		err = st.list.ToggleComplete(ctx, id)
	case "remove":
		err = st.list.Remove(ctx, id, confirmed(r))
		if err == nil {
			success = "Set removed."
		}
	case "move":
		err = st.list.MoveToCollection(ctx, id)
		if err == nil {
			sess.Delete(keyCollection)
			success = "Set moved to your collection."
		}
	default:
		c.notFound(w, r)
		return
	}

	if !auth.SignedIn() && errors.Is(err, listsync.ErrReadOnly) && !wantsJSON(r) {
		http.Redirect(w, r, "/login?next="+url.QueryEscape(back), http.StatusSeeOther)
		return
	}
	c.finish(w, r, "List"+action, back, err, success, st.list.Snapshot())
}

// ConfirmRemove handles GET /lists/{key}/remove?id=...
func (c *ListController) ConfirmRemove(w http.ResponseWriter, r *http.Request) {
	st, ok := c.resolve(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	name := id
	for _, s := range st.list.Items() {
		if s.SetNum == id {
			name = s.Name + " (" + s.SetNum + ")"
			break
		}
	}
	c.confirm(w, r,
		"Remove "+name+"? This cannot be undone.",
		"/lists/"+st.key+"/remove",
		backTo(r, listKeys[st.key]),
		map[string]string{"id": id},
	)
}

// invalidateDestination drops the stored collection or wishlist after sets
// were added to it, so it is fetched fresh with the server's quantities
func invalidateDestination(sess *session.Session, tag listsync.Tag) {
	switch tag {
	case listsync.TagCollection:
		sess.Delete(keyCollection)
	case listsync.TagWishlist:
		sess.Delete(keyWishlist)
	}
}

func addedMessage(tag listsync.Tag) string {
	if tag == listsync.TagWishlist {
		return "Added to your wishlist."
	}
	return "Added to your collection."
}
