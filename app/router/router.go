package router

import (
	"net/http"

	"brickvault/app/controller"
	"brickvault/app/middleware"
)

// Controllers groups every page controller
type Controllers struct {
	Auth       *controller.AuthController
	Browse     *controller.BrowseController
	Collection *controller.CollectionController
	Lists      *controller.ListController
	Prices     *controller.PriceController
	Blog       *controller.BlogController
	Profile    *controller.ProfileController
	Export     *controller.ExportController
	Admin      *controller.AdminController
	AdminBlog  *controller.AdminBlogController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on a new mux. Member pages require a
// signed-in user; /admin pages require an admin confirmed by the API.
func SetupRoutes(c *Controllers, admins middleware.AdminChecker) *http.ServeMux {
	mux := http.NewServeMux()
	user := middleware.RequireUser
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireUser(middleware.RequireAdmin(admins)(h))
	}

	mux.HandleFunc("GET /ping", pingHandler)

	// Auth
	mux.HandleFunc("GET /login", c.Auth.LoginForm)
	mux.HandleFunc("POST /login", c.Auth.Login)
	mux.HandleFunc("POST /logout", c.Auth.Logout)

	// Public catalogue
	mux.HandleFunc("GET /{$}", c.Browse.Home)
	mux.HandleFunc("GET /themes", c.Browse.Themes)
	mux.HandleFunc("GET /themes/{id}", c.Browse.Theme)
	mux.HandleFunc("POST /themes/{id}/more", c.Browse.LoadMore)
	mux.HandleFunc("GET /search", c.Browse.Search)
	mux.HandleFunc("GET /sets/{setNum}", c.Browse.SetDetail)

	// Set list interactions, shared by every set grid
	mux.HandleFunc("POST /lists/{key}/{action}", c.Lists.Act)
	mux.HandleFunc("GET /lists/{key}/remove", user(c.Lists.ConfirmRemove))

	// Collection and wishlist
	mux.HandleFunc("GET /collection", user(c.Collection.Collection))
	mux.HandleFunc("POST /collection/groups/{themeID}/toggle", user(c.Collection.ToggleGroup))
	mux.HandleFunc("POST /collection/favorite", user(c.Collection.Favorite))
	mux.HandleFunc("GET /collection/export", user(c.Export.HTML))
	mux.HandleFunc("GET /collection/export.pdf", user(c.Export.PDF))
	mux.HandleFunc("GET /wishlist", user(c.Collection.Wishlist))

	// Users
	mux.HandleFunc("GET /users/{username}", c.Profile.Show)
	mux.HandleFunc("GET /users/{username}/sets", c.Collection.UserSets)
	mux.HandleFunc("GET /profile", user(c.Profile.Edit))
	mux.HandleFunc("POST /profile", user(c.Profile.Update))
	mux.HandleFunc("POST /profile/avatar", user(c.Profile.Avatar))

	// Price tool
	mux.HandleFunc("GET /prices", c.Prices.Search)
	mux.HandleFunc("POST /prices/show", c.Prices.ShowPrices)
	mux.HandleFunc("GET /prices/{setNum}", c.Prices.Compare)
	mux.HandleFunc("POST /prices/{setNum}/refresh", user(c.Prices.Refresh))

	// Blog
	mux.HandleFunc("GET /blog", c.Blog.Index)
	mux.HandleFunc("GET /blog/{slug}", c.Blog.Post)
	mux.HandleFunc("POST /blog/{slug}/comments", user(c.Blog.Comment))

	// Admin: users and trophies
	mux.HandleFunc("GET /admin/users", admin(c.Admin.Users))
	mux.HandleFunc("POST /admin/users/filters", admin(c.Admin.UserFilters))
	mux.HandleFunc("POST /admin/users/{id}/status", admin(c.Admin.UserStatus))
	mux.HandleFunc("GET /admin/users/{id}/delete", admin(c.Admin.ConfirmDeleteUser))
	mux.HandleFunc("POST /admin/users/{id}/delete", admin(c.Admin.DeleteUser))
	mux.HandleFunc("GET /admin/users/{id}/trophies", admin(c.Admin.Assignments))
	mux.HandleFunc("POST /admin/users/{id}/trophies/{action}", admin(c.Admin.Assign))
	mux.HandleFunc("GET /admin/trophies", admin(c.Admin.Trophies))
	mux.HandleFunc("POST /admin/trophies", admin(c.Admin.CreateTrophy))
	mux.HandleFunc("POST /admin/trophies/more", admin(c.Admin.MoreTrophies))
	mux.HandleFunc("GET /admin/trophies/{id}/delete", admin(c.Admin.ConfirmDeleteTrophy))
	mux.HandleFunc("POST /admin/trophies/{id}/delete", admin(c.Admin.DeleteTrophy))

	// Admin: logs
	mux.HandleFunc("GET /admin/logs", admin(c.Admin.Logs))
	mux.HandleFunc("POST /admin/logs/filters", admin(c.Admin.LogFilters))
	mux.HandleFunc("POST /admin/logs/more", admin(c.Admin.MoreLogs))

	// Admin: blog
	mux.HandleFunc("GET /admin/blog", admin(c.AdminBlog.Index))
	mux.HandleFunc("GET /admin/blog/new", admin(c.AdminBlog.New))
	mux.HandleFunc("GET /admin/blog/{id}/edit", admin(c.AdminBlog.Edit))
	mux.HandleFunc("POST /admin/blog/save", admin(c.AdminBlog.Save))
	mux.HandleFunc("POST /admin/blog/autosave", admin(c.AdminBlog.Autosave))
	mux.HandleFunc("POST /admin/blog/discard", admin(c.AdminBlog.Discard))
	mux.HandleFunc("GET /admin/blog/{id}/delete", admin(c.AdminBlog.ConfirmDelete))
	mux.HandleFunc("POST /admin/blog/{id}/delete", admin(c.AdminBlog.Delete))
	mux.HandleFunc("POST /admin/blog/images", admin(c.AdminBlog.UploadImage))

	return mux
}
