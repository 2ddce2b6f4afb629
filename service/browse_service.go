package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/repository"
)

const latestSetsOnHome = 12

// BrowseService builds the public browsing screens: home, themes, sub-themes
// and search. Every list is multi-select so a signed-in visitor can bulk add.
type BrowseService struct {
	sets          repository.SetRepositoryInterface
	themes        repository.ThemeRepositoryInterface
	collection    repository.CollectionRepositoryInterface
	wishlist      repository.WishlistRepositoryInterface
	feedbackDelay time.Duration
	batchSize     int
}

// NewBrowseService creates a new BrowseService
func NewBrowseService(
	sets repository.SetRepositoryInterface,
	themes repository.ThemeRepositoryInterface,
	collection repository.CollectionRepositoryInterface,
	wishlist repository.WishlistRepositoryInterface,
	feedbackDelay time.Duration,
	batchSize int,
) *BrowseService {
	return &BrowseService{
		sets:          sets,
		themes:        themes,
		collection:    collection,
		wishlist:      wishlist,
		feedbackDelay: feedbackDelay,
		batchSize:     batchSize,
	}
}

func (s *BrowseService) options(signedIn bool) listsync.Options {
	return listsync.Options{
		Mode:          listsync.MultiSelect,
		CanMutate:     signedIn,
		FeedbackDelay: s.feedbackDelay,
		Collection:    s.collection,
		Wishlist:      s.wishlist,
	}
}

// HomePage is the landing screen: the newest sets and the root themes
type HomePage struct {
	Latest *listsync.List
	Themes []models.Theme
}

// Close stops the list's timers
func (p *HomePage) Close() {
	p.Latest.Close()
}

// Home fetches the newest sets and the themes in parallel
func (s *BrowseService) Home(ctx context.Context, signedIn bool) (*HomePage, error) {
	var latest []models.Set
	var themes []models.Theme

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		latest, err = s.sets.Latest(gctx, latestSetsOnHome)
		return err
	})
	g.Go(func() error {
		var err error
		themes, err = s.themes.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ Home: %v", err)
		return nil, err
	}
	return &HomePage{
		Latest: listsync.New(latest, s.options(signedIn)),
		Themes: themes,
	}, nil
}

// Themes returns the root themes
func (s *BrowseService) Themes(ctx context.Context) ([]models.Theme, error) {
	return s.themes.List(ctx)
}

// ThemePage is one theme with its children
type ThemePage struct {
	Theme     *models.Theme
	SubThemes []models.Theme
}

// Theme fetches a theme and its sub-themes in parallel
func (s *BrowseService) Theme(ctx context.Context, id int) (*ThemePage, error) {
	page := &ThemePage{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Theme, err = s.themes.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		page.SubThemes, err = s.themes.SubThemes(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ Theme: id=%d: %v", id, err)
		return nil, err
	}
	return page, nil
}

// ThemeFeed returns an empty "load more" list over the sets of a theme
func (s *BrowseService) ThemeFeed(themeID int, signedIn bool) *listsync.Feed {
	fetch := func(ctx context.Context, offset, limit int) (listsync.Page[models.Set], error) {
		sets, pagination, err := s.themes.Sets(ctx, themeID, offset, limit)
		if err != nil {
			return listsync.Page[models.Set]{}, err
		}
		return listsync.Page[models.Set]{Items: sets, HasMore: pagination.HasMore}, nil
	}
	return listsync.NewFeed(s.batchSize, fetch, s.options(signedIn))
}

// Search returns an empty page-number list over the search results of query
func (s *BrowseService) Search(query string, signedIn bool) *listsync.PagedList {
	fetch := func(ctx context.Context, page int) ([]models.Set, models.Pagination, error) {
		return s.sets.Search(ctx, query, page)
	}
	return listsync.NewPagedList(fetch, s.options(signedIn))
}

// SetDetail returns one set
func (s *BrowseService) SetDetail(ctx context.Context, setNum string) (*models.SetDetail, error) {
	return s.sets.GetByNum(ctx, setNum)
}
