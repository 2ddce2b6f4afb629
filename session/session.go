// Package session keeps per-browser view state on the server: the signed-in
// user, the API cookies that identify them upstream, and the named state of
// each page (lists, loaders, filters, collapsed groups, flash messages).
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"brickvault/apiclient"
	"brickvault/models"
)

// Flash is a one-shot message shown on the next render.
type Flash struct {
	Kind    string `json:"kind"` // success, error, info
	Message string `json:"message"`
}

// Session is the server-side state of one browser.
type Session struct {
	ID string

	mu       sync.Mutex
	user     *models.User
	cookies  []*http.Cookie
	values   map[string]any
	flashes  []Flash
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		values:   make(map[string]any),
		lastSeen: now,
	}
}

// Auth returns the capability object controllers use for identity.
// It is a copy: later sign-ins do not change an Auth already handed out.
func (s *Session) Auth() Auth {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := Auth{Cookies: append([]*http.Cookie(nil), s.cookies...)}
	if s.user != nil {
		u := *s.user
		a.User = &u
	}
	return a
}

// SignIn records the user and the API cookies that authenticate them.
// View state from an earlier identity is discarded.
func (s *Session) SignIn(user models.User, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeValuesLocked()
	s.user = &user
	s.cookies = append([]*http.Cookie(nil), cookies...)
}

// SignOut forgets the user and all view state.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeValuesLocked()
	s.user = nil
	s.cookies = nil
}

// UpdateUser replaces the cached user record, e.g. after a profile edit.
func (s *Session) UpdateUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user = &user
	}
}

// AddFlash queues a message for the next render.
func (s *Session) AddFlash(kind, message string) {
	if message == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{Kind: kind, Message: message})
}

// Flashes returns and clears the queued messages.
func (s *Session) Flashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// Load returns the view state stored under key.
func (s *Session) Load(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Store saves view state under key, closing whatever it replaces.
func (s *Session) Store(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		closeValue(old)
	}
	s.values[key] = v
}

// Delete drops the view state under key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		closeValue(old)
		delete(s.values, key)
	}
}

// State returns the value of type T stored under key, creating it with create
// when missing or of another type.
func State[T any](s *Session, key string, create func() T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(T); ok {
		return v
	}
	if old, ok := s.values[key]; ok {
		closeValue(old)
	}
	v := create()
	s.values[key] = v
	return v
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeValuesLocked()
}

func (s *Session) closeValuesLocked() {
	for k, v := range s.values {
		closeValue(v)
		delete(s.values, k)
	}
}

type closer interface{ Close() }

func closeValue(v any) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// Auth is the identity of the principal behind a request.
type Auth struct {
	User    *models.User
	Cookies []*http.Cookie
}

// SignedIn reports whether a user is present.
func (a Auth) SignedIn() bool {
	return a.User != nil
}

// UserID returns the user id, or 0 when anonymous.
func (a Auth) UserID() int {
	if a.User == nil {
		return 0
	}
	return a.User.ID
}

// Owns reports whether the principal is the user with the given id.
func (a Auth) Owns(userID int) bool {
	return a.User != nil && a.User.ID == userID
}

// Context attaches the API cookies to ctx so repository calls carry identity.
func (a Auth) Context(ctx context.Context) context.Context {
	if len(a.Cookies) == 0 {
		return ctx
	}
	return apiclient.WithCredentials(ctx, a.Cookies)
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session of the request, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
