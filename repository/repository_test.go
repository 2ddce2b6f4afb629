package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/apiclient"
	"brickvault/db"
	"brickvault/models"
)

// fakeAPI serves canned JSON per path and records request bodies.
type fakeAPI struct {
	t         *testing.T
	responses map[string]string
	bodies    map[string]string
	queries   map[string]string
}

func newFakeAPI(t *testing.T, responses map[string]string) (*fakeAPI, *apiclient.Client) {
	api := &fakeAPI{t: t, responses: responses, bodies: map[string]string{}, queries: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)
	return api, apiclient.New(srv.URL, 5*time.Second)
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	a.bodies[r.URL.Path] = string(body)
	a.queries[r.URL.Path] = r.URL.RawQuery
	resp, ok := a.responses[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.URL.Path == pathLogin {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "api-session"})
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, resp)
}

func TestCollectionAddSendsOneBulkRequest(t *testing.T) {
	api, client := newFakeAPI(t, map[string]string{pathCollectionAdd: `{"success":true}`})
	repo := NewCollectionRepository(client)

	err := repo.Add(context.Background(), []models.AddItem{
		{SetNum: "10220-1", Quantity: 2},
		{SetNum: "75192-1", Quantity: 1},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"setNum":"10220-1","quantity":2},{"setNum":"75192-1","quantity":1}]`, api.bodies[pathCollectionAdd])
}

func TestCollectionUpdateQuantityCarriesNewValue(t *testing.T) {
	api, client := newFakeAPI(t, map[string]string{pathCollectionQty: `{"success":true}`})
	require.NoError(t, NewCollectionRepository(client).UpdateQuantity(context.Background(), "10220-1", 3))
	assert.JSONEq(t, `{"setNum":"10220-1","quantity":3}`, api.bodies[pathCollectionQty])
}

func TestCollectionListRejectsSetWithoutNumber(t *testing.T) {
	_, client := newFakeAPI(t, map[string]string{
		pathCollection: `{"success":true,"sets":[{"name":"Nameless"}]}`,
	})
	_, err := NewCollectionRepository(client).List(context.Background())

	var invalid *apiclient.InvalidPayloadError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, apiclient.GenericErrorMessage, apiclient.UserMessage(err))
}

func TestWishlistMoveSurfacesServerMessage(t *testing.T) {
	_, client := newFakeAPI(t, map[string]string{
		pathWishlistMove: `{"success":false,"message":"Set already in collection"}`,
	})
	err := NewWishlistRepository(client).MoveToCollection(context.Background(), "75192-1")
	require.Error(t, err)
	assert.Equal(t, "Set already in collection", apiclient.UserMessage(err))
}

func TestLoginReturnsUserAndCookies(t *testing.T) {
	_, client := newFakeAPI(t, map[string]string{
		pathLogin: `{"success":true,"user":{"id":7,"username":"brickfan","is_admin":false}}`,
	})
	user, cookies, err := NewAuthRepository(client).Login(context.Background(), models.Credentials{Username: "brickfan", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	require.Len(t, cookies, 1)
	assert.Equal(t, "api-session", cookies[0].Value)
}

func TestLoginFailureKeepsMessage(t *testing.T) {
	_, client := newFakeAPI(t, map[string]string{
		pathLogin: `{"success":false,"message":"Invalid username or password"}`,
	})
	_, _, err := NewAuthRepository(client).Login(context.Background(), models.Credentials{Username: "x"})
	assert.Equal(t, "Invalid username or password", apiclient.UserMessage(err))
}

func TestThemeSetsUsesOffsetAndLimit(t *testing.T) {
	api, client := newFakeAPI(t, map[string]string{
		pathThemeSets: `{"success":true,"sets":[{"set_num":"6080-1","name":"King's Castle"}],"pagination":{"offset":20,"limit":20,"total_count":21,"has_more":false}}`,
	})
	sets, page, err := NewThemeRepository(client).Sets(context.Background(), 186, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, "limit=20&offset=20&theme_id=186", api.queries[pathThemeSets])
	require.Len(t, sets, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, 21, page.TotalCount)
}

func TestUserListSkipsUnconstrainedFilters(t *testing.T) {
	api, client := newFakeAPI(t, map[string]string{
		pathAdminUsers: `{"success":true,"users":[{"id":1,"username":"a"}],"pagination":{"current_page":1,"total_pages":3}}`,
	})
	users, page, err := NewUserRepository(client).List(context.Background(), models.UserFilter{Status: "all", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "page=1&role=admin", api.queries[pathAdminUsers])
	assert.Len(t, users, 1)
	assert.True(t, page.HasNext())
}

func TestSavePostFlattensDraft(t *testing.T) {
	api, client := newFakeAPI(t, map[string]string{
		pathAdminBlogSave: `{"success":true,"post":{"id":12,"title":"Castle MOC","slug":"castle-moc"}}`,
	})
	post, err := NewBlogRepository(client).SavePost(context.Background(), 12, models.BlogDraft{Title: "Castle MOC", Slug: "castle-moc", Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 12, post.ID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(api.bodies[pathAdminBlogSave]), &sent))
	assert.Equal(t, float64(12), sent["id"])
	assert.Equal(t, "Castle MOC", sent["title"])
}

func TestTransportErrorIsRetryable(t *testing.T) {
	_, client := newFakeAPI(t, map[string]string{})
	_, err := NewLogRepository(client).Stats(context.Background())
	assert.True(t, apiclient.IsRetryable(err))
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
}

func testPreferenceRepository(t *testing.T, repo PreferenceRepositoryInterface) {
	ctx := context.Background()

	_, ok, err := repo.GetPreference(ctx, 1, "showPrices")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetPreference(ctx, 1, "showPrices", "true"))
	require.NoError(t, repo.SetPreference(ctx, 1, "showPrices", "false"))
	v, ok, err := repo.GetPreference(ctx, 1, "showPrices")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)

	_, ok, err = repo.GetPreference(ctx, 2, "showPrices")
	require.NoError(t, err)
	assert.False(t, ok, "preferences are per user")

	draft := models.BlogDraft{Title: "Modular buildings ranked", Content: "<p>Hi</p>", CategoryID: 3}
	require.NoError(t, repo.SaveDraft(ctx, 1, "blog_editor_form_new", draft))
	got, err := repo.LoadDraft(ctx, 1, "blog_editor_form_new")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(draft, *got); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, repo.DeleteDraft(ctx, 1, "blog_editor_form_new"))
	got, err = repo.LoadDraft(ctx, 1, "blog_editor_form_new")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryPreferenceRepository(t *testing.T) {
	testPreferenceRepository(t, NewMemoryPreferenceRepository())
}

func TestPostgresPreferenceRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.InitDB(context.Background(), dsn))
	t.Cleanup(func() {
		db.DB.Exec(`DELETE FROM user_preferences WHERE user_id IN (1, 2)`)
		db.DB.Exec(`DELETE FROM editor_drafts WHERE user_id IN (1, 2)`)
		db.CloseDB()
	})
	testPreferenceRepository(t, NewPreferenceRepository(db.DB))
}

func TestInitDBRequiresDSN(t *testing.T) {
	require.Error(t, db.InitDB(context.Background(), ""))
	assert.Nil(t, db.DB)
}
