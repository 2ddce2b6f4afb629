package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/models"
	"brickvault/repository"
)

type fakeCollectionRepo struct {
	repository.CollectionRepositoryInterface
	mu       sync.Mutex
	sets     []models.Set
	listErr  error
	removed  []string
	added    [][]models.AddItem
	quantity map[string]int
}

func (f *fakeCollectionRepo) List(context.Context) ([]models.Set, error) {
	return f.sets, f.listErr
}

func (f *fakeCollectionRepo) Add(_ context.Context, items []models.AddItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, items)
	return nil
}

func (f *fakeCollectionRepo) UpdateQuantity(_ context.Context, setNum string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantity[setNum] = n
	return nil
}

func (f *fakeCollectionRepo) Remove(_ context.Context, setNum string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, setNum)
	return nil
}

type fakeWishlistRepo struct {
	repository.WishlistRepositoryInterface
	sets  []models.Set
	moved []string
}

func (f *fakeWishlistRepo) List(context.Context) ([]models.Set, error) {
	return f.sets, nil
}

func (f *fakeWishlistRepo) MoveToCollection(_ context.Context, setNum string) error {
	f.moved = append(f.moved, setNum)
	return nil
}

type fakePublicUsers struct {
	repository.UserRepositoryInterface
}

func (fakePublicUsers) PublicSets(_ context.Context, username string) (*models.User, []models.Set, error) {
	return &models.User{ID: 8, Username: username}, []models.Set{{SetNum: "6080-1", Name: "King's Castle"}}, nil
}

func newTestCollectionService(coll *fakeCollectionRepo, wish *fakeWishlistRepo) (*CollectionService, *repository.MemoryPreferenceRepository) {
	prefs := repository.NewMemoryPreferenceRepository()
	return NewCollectionService(coll, wish, fakePublicUsers{}, prefs, 10*time.Millisecond), prefs
}

func TestLoadCollectionReadsFavoriteTheme(t *testing.T) {
	coll := &fakeCollectionRepo{
		sets:     []models.Set{{SetNum: "10220-1", Quantity: 2, NumParts: 1334}, {SetNum: "21318-1", Quantity: 1, NumParts: 3036}},
		quantity: map[string]int{},
	}
	svc, prefs := newTestCollectionService(coll, &fakeWishlistRepo{})
	ctx := context.Background()
	require.NoError(t, prefs.SetPreference(ctx, 3, PrefFavoriteTheme, "158"))

	page, err := svc.LoadCollection(ctx, 3)
	require.NoError(t, err)
	defer page.Close()

	assert.Equal(t, 158, page.FavoriteThemeID)
	assert.Equal(t, 2, page.List.Len())
	stats := page.List.Stats()
	assert.Equal(t, 3, stats.TotalSets)
	assert.Equal(t, 2*1334+3036, stats.TotalParts)

	require.NoError(t, page.List.Increment(ctx, "21318-1"))
	assert.Equal(t, 2, coll.quantity["21318-1"])
}

func TestLoadCollectionSurfacesListError(t *testing.T) {
	coll := &fakeCollectionRepo{listErr: errors.New("boom")}
	svc, _ := newTestCollectionService(coll, &fakeWishlistRepo{})

	_, err := svc.LoadCollection(context.Background(), 1)
	assert.EqualError(t, err, "boom")
}

func TestWishlistMoveEmptiesList(t *testing.T) {
	wish := &fakeWishlistRepo{sets: []models.Set{{SetNum: "75192-1", Name: "Millennium Falcon"}}}
	svc, _ := newTestCollectionService(&fakeCollectionRepo{}, wish)
	ctx := context.Background()

	list, err := svc.LoadWishlist(ctx)
	require.NoError(t, err)
	defer list.Close()

	require.NoError(t, list.MoveToCollection(ctx, "75192-1"))
	assert.Equal(t, []string{"75192-1"}, wish.moved)
	assert.True(t, list.Snapshot().Empty())
}

func TestUserSetsAreReadOnlyForAnonymousViewers(t *testing.T) {
	coll := &fakeCollectionRepo{}
	svc, _ := newTestCollectionService(coll, &fakeWishlistRepo{})
	ctx := context.Background()

	page, err := svc.LoadUserSets(ctx, "knight", false)
	require.NoError(t, err)
	defer page.Close()
	assert.Equal(t, "knight", page.Owner.Username)
	assert.False(t, page.List.Snapshot().CanMutate)

	signedIn, err := svc.LoadUserSets(ctx, "knight", true)
	require.NoError(t, err)
	defer signedIn.Close()
	require.NoError(t, signedIn.List.ToggleSelect("6080-1"))
	require.NoError(t, signedIn.List.Add(ctx, "collection"))
	assert.Equal(t, [][]models.AddItem{{{SetNum: "6080-1", Quantity: 1}}}, coll.added)
}

func TestFavoriteThemeRoundTrip(t *testing.T) {
	svc, _ := newTestCollectionService(&fakeCollectionRepo{}, &fakeWishlistRepo{})
	ctx := context.Background()

	assert.Zero(t, svc.FavoriteTheme(ctx, 5))
	require.NoError(t, svc.SetFavoriteTheme(ctx, 5, 246))
	assert.Equal(t, 246, svc.FavoriteTheme(ctx, 5))
	assert.Error(t, svc.SetFavoriteTheme(ctx, 0, 246))
	assert.Zero(t, svc.FavoriteTheme(ctx, 0))
}
