package middleware

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"brickvault/session"
)

// RequireUser sends anonymous visitors to the login page, remembering
// where they were going
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil || !sess.Auth().SignedIn() {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// AdminChecker asks the API whether the credentials in ctx belong to an admin
type AdminChecker interface {
	IsAdmin(ctx context.Context) bool
}

// RequireAdmin lets a request through only when the API confirms the user is
// an admin. Anyone else is redirected home.
func RequireAdmin(checker AdminChecker) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			auth := sess.Auth()
			if !auth.SignedIn() || !checker.IsAdmin(auth.Context(r.Context())) {
				zap.S().Warnf("⚠️ RequireAdmin: denied %s to user=%d", r.URL.Path, auth.UserID())
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}
