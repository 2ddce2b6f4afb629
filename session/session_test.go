package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"brickvault/apiclient"
	"brickvault/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type closeCounter struct{ closed int }

func (c *closeCounter) Close() { c.closed++ }

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(ttl)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s, err := m.Create()
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestIdleSessionsExpire(t *testing.T) {
	m, now := newTestManager(time.Minute)
	s, err := m.Create()
	require.NoError(t, err)
	state := &closeCounter{}
	s.Store("collection", state)

	*now = now.Add(30 * time.Second)
	_, ok := m.Get(s.ID)
	require.True(t, ok, "touching keeps the session alive")

	*now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, state.closed, "view state is closed on expiry")
}

func TestGetDropsExpiredSession(t *testing.T) {
	m, now := newTestManager(time.Minute)
	s, err := m.Create()
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestRunStopsWithContext(t *testing.T) {
	m := NewManager(time.Millisecond)
	_, err := m.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestStateCreatesOnceAndSignOutClears(t *testing.T) {
	s := newSession("abc", time.Now())
	calls := 0
	create := func() *closeCounter {
		calls++
		return &closeCounter{}
	}
	first := State(s, "wishlist", create)
	second := State(s, "wishlist", create)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	s.SignIn(models.User{ID: 7, Username: "brickfan"}, []*http.Cookie{{Name: "PHPSESSID", Value: "x"}})
	assert.Equal(t, 1, first.closed, "signing in discards earlier view state")
	_, ok := s.Load("wishlist")
	assert.False(t, ok)

	auth := s.Auth()
	require.True(t, auth.SignedIn())
	assert.True(t, auth.Owns(7))
	assert.False(t, auth.Owns(8))

	s.SignOut()
	assert.False(t, s.Auth().SignedIn())
	assert.True(t, auth.SignedIn(), "an Auth handed out earlier is a snapshot")
}

func TestAuthContextCarriesCookies(t *testing.T) {
	auth := Auth{Cookies: []*http.Cookie{{Name: "PHPSESSID", Value: "abc"}}}
	ctx := auth.Context(context.Background())
	cookies := apiclient.CredentialsFrom(ctx)
	require.Len(t, cookies, 1)
	assert.Equal(t, "abc", cookies[0].Value)
}

func TestFlashesArePoppedOnce(t *testing.T) {
	s := newSession("abc", time.Now())
	s.AddFlash("error", "Set not found")
	s.AddFlash("info", "")
	assert.Equal(t, []Flash{{Kind: "error", Message: "Set not found"}}, s.Flashes())
	assert.Empty(t, s.Flashes())
}

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	token, err := codec.Sign("sid-123")
	require.NoError(t, err)

	sid, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sid)

	_, err = NewTokenCodec("other", time.Hour).Parse(token)
	assert.Error(t, err)

	expired, err := NewTokenCodec("secret", -time.Minute).Sign("sid-123")
	require.NoError(t, err)
	_, err = codec.Parse(expired)
	assert.Error(t, err)
}
