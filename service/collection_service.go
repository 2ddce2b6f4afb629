package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/repository"
)

// PrefFavoriteTheme is the preference key of the theme promoted to the top
// of the grouped collection view.
const PrefFavoriteTheme = "favorite_theme"

// CollectionService builds the lists behind the collection, wishlist and
// public user collection screens
type CollectionService struct {
	collection    repository.CollectionRepositoryInterface
	wishlist      repository.WishlistRepositoryInterface
	users         repository.UserRepositoryInterface
	prefs         repository.PreferenceRepositoryInterface
	feedbackDelay time.Duration
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	collection repository.CollectionRepositoryInterface,
	wishlist repository.WishlistRepositoryInterface,
	users repository.UserRepositoryInterface,
	prefs repository.PreferenceRepositoryInterface,
	feedbackDelay time.Duration,
) *CollectionService {
	return &CollectionService{
		collection:    collection,
		wishlist:      wishlist,
		users:         users,
		prefs:         prefs,
		feedbackDelay: feedbackDelay,
	}
}

// CollectionPage is the state of the signed-in user's collection screen
type CollectionPage struct {
	List            *listsync.List
	FavoriteThemeID int
}

// Close stops the list's timers
func (p *CollectionPage) Close() {
	p.List.Close()
}

// LoadCollection fetches the collection and the favorite theme in parallel.
// ctx must carry the user's API credentials.
func (s *CollectionService) LoadCollection(ctx context.Context, userID int) (*CollectionPage, error) {
	var sets []models.Set
	var favorite int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sets, err = s.collection.List(gctx)
		return err
	})
	g.Go(func() error {
		favorite = s.FavoriteTheme(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ LoadCollection: user=%d: %v", userID, err)
		return nil, err
	}

	zap.S().Debugf("LoadCollection: user=%d sets=%d", userID, len(sets))
	list := listsync.New(sets, listsync.Options{
		Mode:          listsync.SingleSelect,
		CanMutate:     true,
		FeedbackDelay: s.feedbackDelay,
		Wishlist:      s.wishlist,
		Quantities:    s.collection,
		Completion:    s.collection,
		Remover:       s.collection,
	})
	return &CollectionPage{List: list, FavoriteThemeID: favorite}, nil
}

// LoadWishlist fetches the wishlist. Entries can be removed or moved into
// the collection.
func (s *CollectionService) LoadWishlist(ctx context.Context) (*listsync.List, error) {
	sets, err := s.wishlist.List(ctx)
	if err != nil {
		zap.S().Errorf("❌ LoadWishlist: %v", err)
		return nil, err
	}
	return listsync.New(sets, listsync.Options{
		Mode:          listsync.SingleSelect,
		CanMutate:     true,
		FeedbackDelay: s.feedbackDelay,
		Remover:       s.wishlist,
		Mover:         s.wishlist,
	}), nil
}

// UserSetsPage is another user's public collection
type UserSetsPage struct {
	Owner *models.User
	List  *listsync.List
}

// Close stops the list's timers
func (p *UserSetsPage) Close() {
	p.List.Close()
}

// LoadUserSets fetches the public collection of username. A signed-in viewer
// may add any of its sets to their own collection or wishlist.
func (s *CollectionService) LoadUserSets(ctx context.Context, username string, viewerSignedIn bool) (*UserSetsPage, error) {
	owner, sets, err := s.users.PublicSets(ctx, username)
	if err != nil {
		zap.S().Errorf("❌ LoadUserSets: user=%s: %v", username, err)
		return nil, err
	}
	list := listsync.New(sets, listsync.Options{
		Mode:          listsync.MultiSelect,
		CanMutate:     viewerSignedIn,
		FeedbackDelay: s.feedbackDelay,
		Collection:    s.collection,
		Wishlist:      s.wishlist,
	})
	return &UserSetsPage{Owner: owner, List: list}, nil
}

// FavoriteTheme returns the user's favorite theme id, or 0 when unset.
// Preference store failures only cost the grouping order, so they are logged.
func (s *CollectionService) FavoriteTheme(ctx context.Context, userID int) int {
	if userID == 0 {
		return 0
	}
	v, ok, err := s.prefs.GetPreference(ctx, userID, PrefFavoriteTheme)
	if err != nil {
		zap.S().Warnf("⚠️ FavoriteTheme: user=%d: %v", userID, err)
		return 0
	}
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return id
}

// SetFavoriteTheme stores the favorite theme; 0 clears it
func (s *CollectionService) SetFavoriteTheme(ctx context.Context, userID, themeID int) error {
	if userID == 0 {
		return fmt.Errorf("favorite theme requires a signed-in user")
	}
	return s.prefs.SetPreference(ctx, userID, PrefFavoriteTheme, strconv.Itoa(themeID))
}
