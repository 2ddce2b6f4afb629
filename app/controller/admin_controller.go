package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/service"
	"brickvault/session"
)

// AdminController handles the user, trophy and log back-office screens
type AdminController struct {
	*Renderer
	admin *service.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(renderer *Renderer, admin *service.AdminService) *AdminController {
	return &AdminController{Renderer: renderer, admin: admin}
}

var (
	userFilterFields = []string{"search", "status", "role"}
	logFilterFields  = []string{"search", "action", "level", "date"}
)

func newFilters() *listsync.Filters {
	return listsync.NewFilters(nil)
}

// formFilters collects the named fields from a submitted filter form
func formFilters(r *http.Request, fields []string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = strings.TrimSpace(r.FormValue(f))
	}
	return values
}

type adminUsersView struct {
	Users      []models.User
	Pagination models.Pagination
	Stats      *models.UserStats
	Filters    map[string]string
	Statuses   []string
}

// Users handles GET /admin/users?page=N
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	filters := session.State(sess, keyUserFilters, newFilters)
	pager := session.State(sess, keyAdminUsers, func() *listsync.Pager[models.User] {
		return c.admin.UsersPager(filters)
	})

	page := filters.Page()
	if r.URL.Query().Has("page") {
		page = queryPage(r)
		filters.SetPage(page)
	}

	stats, err := c.admin.UsersPage(r.Context(), pager, page)
	if err != nil {
		c.fail(w, r, "AdminUsers", err)
		return
	}
	c.render(w, r, "admin_users", "Users", adminUsersView{
		Users:      pager.Items(),
		Pagination: pager.Pagination(),
		Stats:      stats,
		Filters:    filters.Values(),
		Statuses:   service.UserStatuses,
	})
}

// UserFilters handles POST /admin/users/filters. Any change returns to page 1.
func (c *AdminController) UserFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionOf(r)
	filters := session.State(sess, keyUserFilters, newFilters)
	if r.FormValue("reset") != "" {
		filters.Reset()
	} else {
		filters.Apply(formFilters(r, userFilterFields))
	}
	c.finish(w, r, "AdminUserFilters", "/admin/users?page=1", nil, "", filters.Values())
}

// UserStatus handles POST /admin/users/{id}/status (status)
func (c *AdminController) UserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	_, _, r = apiContext(r)
	err = c.admin.UpdateUserStatus(r.Context(), id, r.FormValue("status"))
	c.finish(w, r, "AdminUserStatus", backTo(r, "/admin/users"), err, "User status updated.", nil)
}

// ConfirmDeleteUser handles GET /admin/users/{id}/delete
func (c *AdminController) ConfirmDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := pathInt(r, "id"); err != nil {
		c.notFound(w, r)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "this user"
	}
	c.confirm(w, r,
		fmt.Sprintf("Delete %s and all of their data? This cannot be undone.", name),
		r.URL.Path, "/admin/users", nil)
}

// DeleteUser handles POST /admin/users/{id}/delete (confirm=yes)
func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	if !confirmed(r) {
		c.finish(w, r, "AdminDeleteUser", r.URL.Path, listsync.ErrNotConfirmed, "", nil)
		return
	}
	_, _, r = apiContext(r)
	err = c.admin.DeleteUser(r.Context(), id)
	c.finish(w, r, "AdminDeleteUser", "/admin/users", err, "User deleted.", nil)
}

type adminTrophiesView struct {
	Trophies []models.Trophy
	Stats    *models.TrophyStats
	HasMore  bool
	Loading  bool
}

// Trophies handles GET /admin/trophies
func (c *AdminController) Trophies(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	ctx := r.Context()
	loader := session.State(sess, keyTrophies, c.admin.TrophyLoader)

	var stats *models.TrophyStats
	g, gctx := errgroup.WithContext(ctx)
	if len(loader.Items()) == 0 && loader.HasMore() && !loader.Loading() {
		g.Go(func() error {
			_, err := loader.LoadMore(gctx)
			return err
		})
	}
	g.Go(func() error {
		var err error
		stats, err = c.admin.TrophyStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail(w, r, "AdminTrophies", err)
		return
	}

	c.render(w, r, "admin_trophies", "Trophies", adminTrophiesView{
		Trophies: loader.Items(),
		Stats:    stats,
		HasMore:  loader.HasMore(),
		Loading:  loader.Loading(),
	})
}

// MoreTrophies handles POST /admin/trophies/more
func (c *AdminController) MoreTrophies(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	loader := session.State(sess, keyTrophies, c.admin.TrophyLoader)
	n, err := loader.LoadMore(r.Context())
	c.finish(w, r, "AdminMoreTrophies", "/admin/trophies", err, "", map[string]any{
		"added":    n,
		"hasMore":  loader.HasMore(),
		"trophies": loader.Items(),
	})
}

// CreateTrophy handles POST /admin/trophies (name, description, icon, points, rarity)
func (c *AdminController) CreateTrophy(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	points, _ := strconv.Atoi(r.FormValue("points"))
	err := c.admin.CreateTrophy(r.Context(), models.Trophy{
		Name:        r.FormValue("name"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Icon:        strings.TrimSpace(r.FormValue("icon")),
		Points:      points,
		Rarity:      r.FormValue("rarity"),
	})
	if err == nil {
		sess.Delete(keyTrophies)
	}
	c.finish(w, r, "AdminCreateTrophy", "/admin/trophies", err, "Trophy created.", nil)
}

// ConfirmDeleteTrophy handles GET /admin/trophies/{id}/delete
func (c *AdminController) ConfirmDeleteTrophy(w http.ResponseWriter, r *http.Request) {
	if _, err := pathInt(r, "id"); err != nil {
		c.notFound(w, r)
		return
	}
	c.confirm(w, r,
		"Delete this trophy? Users who hold it will lose it.",
		r.URL.Path, "/admin/trophies", nil)
}

// DeleteTrophy handles POST /admin/trophies/{id}/delete (confirm=yes)
func (c *AdminController) DeleteTrophy(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	if !confirmed(r) {
		c.finish(w, r, "AdminDeleteTrophy", r.URL.Path, listsync.ErrNotConfirmed, "", nil)
		return
	}
	sess, _, r := apiContext(r)
	err = c.admin.DeleteTrophy(r.Context(), id)
	if err == nil {
		sess.Delete(keyTrophies)
	}
	c.finish(w, r, "AdminDeleteTrophy", "/admin/trophies", err, "Trophy deleted.", nil)
}

// Assignments handles GET /admin/users/{id}/trophies
func (c *AdminController) Assignments(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	_, _, r = apiContext(r)
	assignments, err := c.admin.Assignments(r.Context(), id)
	if err != nil {
		c.fail(w, r, "AdminAssignments", err)
		return
	}
	c.render(w, r, "admin_assign", "Assign trophies", assignments)
}

// Assign handles POST /admin/users/{id}/trophies/assign (trophy_id)
// and POST /admin/users/{id}/trophies/unassign (trophy_id)
func (c *AdminController) Assign(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	trophyID, err := strconv.Atoi(r.FormValue("trophy_id"))
	if err != nil {
		http.Error(w, "invalid trophy id", http.StatusBadRequest)
		return
	}
	sess, _, r := apiContext(r)
	back := fmt.Sprintf("/admin/users/%d/trophies", userID)
	a := models.TrophyAssignment{UserID: userID, TrophyID: trophyID}

	op, success := "AdminAssignTrophy", "Trophy awarded."
	if r.PathValue("action") == "unassign" {
		op, success = "AdminUnassignTrophy", "Trophy removed."
		err = c.admin.Unassign(r.Context(), a)
	} else {
		err = c.admin.Assign(r.Context(), a)
	}
	if err == nil {
		// holder counts changed
		sess.Delete(keyTrophies)
	}
	c.finish(w, r, op, back, err, success, nil)
}

type adminLogsView struct {
	Logs     []models.LogEntry
	Overview *service.LogOverview
	Filters  map[string]string
	HasMore  bool
	Loading  bool
}

// Logs handles GET /admin/logs
func (c *AdminController) Logs(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	filters := session.State(sess, keyLogFilters, newFilters)
	loader := session.State(sess, keyLogs, func() *listsync.Loader[models.LogEntry] {
		return c.admin.LogLoader(filters)
	})

	var overview *service.LogOverview
	g, gctx := errgroup.WithContext(r.Context())
	if len(loader.Items()) == 0 && loader.HasMore() && !loader.Loading() {
		g.Go(func() error {
			_, err := loader.LoadMore(gctx)
			return err
		})
	}
	g.Go(func() error {
		var err error
		overview, err = c.admin.LogOverview(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail(w, r, "AdminLogs", err)
		return
	}

	c.render(w, r, "admin_logs", "Activity log", adminLogsView{
		Logs:     loader.Items(),
		Overview: overview,
		Filters:  filters.Values(),
		HasMore:  loader.HasMore(),
		Loading:  loader.Loading(),
	})
}

// LogFilters handles POST /admin/logs/filters. A change discards the loaded
// entries, including any batch still in flight for the old filters.
func (c *AdminController) LogFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionOf(r)
	filters := session.State(sess, keyLogFilters, newFilters)
	var changed bool
	if r.FormValue("reset") != "" {
		filters.Reset()
		changed = true
	} else {
		changed = filters.Apply(formFilters(r, logFilterFields))
	}
	if changed {
		if loader, ok := stored[*listsync.Loader[models.LogEntry]](sess, keyLogs); ok {
			loader.Reset()
		}
	}
	c.finish(w, r, "AdminLogFilters", "/admin/logs", nil, "", filters.Values())
}

// MoreLogs handles POST /admin/logs/more
func (c *AdminController) MoreLogs(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	filters := session.State(sess, keyLogFilters, newFilters)
	loader := session.State(sess, keyLogs, func() *listsync.Loader[models.LogEntry] {
		return c.admin.LogLoader(filters)
	})
	n, err := loader.LoadMore(r.Context())
	c.finish(w, r, "AdminMoreLogs", "/admin/logs", err, "", map[string]any{
		"added":   n,
		"hasMore": loader.HasMore(),
		"logs":    loader.Items(),
	})
}
