package controller

import (
	"net/http"

	"go.uber.org/zap"

	"brickvault/models"
	"brickvault/service"
)

// AuthController handles signing in and out
type AuthController struct {
	*Renderer
	auth *service.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(renderer *Renderer, auth *service.AuthService) *AuthController {
	return &AuthController{Renderer: renderer, auth: auth}
}

type loginView struct {
	Username string
	Next     string
}

// LoginForm handles GET /login
func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sessionOf(r).Auth().SignedIn() {
		http.Redirect(w, r, backTo(r, "/collection"), http.StatusSeeOther)
		return
	}
	c.render(w, r, "login", "Sign in", loginView{Next: backTo(r, "")})
}

// Login handles POST /login (username, password, next)
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	zap.S().Infof("📥 Login: Received %s request to %s", r.Method, r.URL.Path)
	sess := sessionOf(r)
	creds := models.Credentials{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	next := r.FormValue("next")
	if !isLocalPath(next) {
		next = "/collection"
	}

	user, cookies, err := c.auth.Login(r.Context(), creds)
	if err != nil {
		if wantsJSON(r) {
			c.finish(w, r, "Login", "/login", err, "", nil)
			return
		}
		sess.AddFlash("error", messageFor(err))
		c.renderStatus(w, r, http.StatusUnauthorized, "login", "Sign in", loginView{Username: creds.Username, Next: next})
		return
	}

	sess.SignIn(*user, cookies)
	c.finish(w, r, "Login", next, nil, "Welcome back, "+user.Username+"!", user)
}

// Logout handles POST /logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	if auth.SignedIn() {
		c.auth.Logout(r.Context())
	}
	sess.SignOut()
	c.finish(w, r, "Logout", "/", nil, "You have been signed out.", nil)
}
