package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"brickvault/session"
)

// SessionConfig configures the session cookie
type SessionConfig struct {
	Manager    *session.Manager
	Codec      *session.TokenCodec
	CookieName string
	Secure     bool
}

// Sessions attaches the browser's session to the request context. The cookie
// is a signed token carrying the session id; a missing, invalid or expired
// cookie starts a fresh anonymous session.
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := lookup(cfg, r)
			if sess == nil {
				var err error
				sess, err = cfg.Manager.Create()
				if err != nil {
					zap.S().Errorf("❌ Sessions: failed to create session: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				token, err := cfg.Codec.Sign(sess.ID)
				if err != nil {
					zap.S().Errorf("❌ Sessions: failed to sign session cookie: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func lookup(cfg SessionConfig, r *http.Request) *session.Session {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return nil
	}
	id, err := cfg.Codec.Parse(cookie.Value)
	if err != nil {
		zap.S().Debugf("Sessions: rejected cookie: %v", err)
		return nil
	}
	sess, ok := cfg.Manager.Get(id)
	if !ok {
		return nil
	}
	return sess
}
