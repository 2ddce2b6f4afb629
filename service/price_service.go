package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/pricing"
	"brickvault/repository"
)

// PriceService backs the price tool
type PriceService struct {
	prices        repository.PriceRepositoryInterface
	sets          repository.SetRepositoryInterface
	collection    repository.CollectionRepositoryInterface
	wishlist      repository.WishlistRepositoryInterface
	engine        *pricing.Engine
	feedbackDelay time.Duration
}

// NewPriceService creates a new PriceService
func NewPriceService(
	prices repository.PriceRepositoryInterface,
	sets repository.SetRepositoryInterface,
	collection repository.CollectionRepositoryInterface,
	wishlist repository.WishlistRepositoryInterface,
	engine *pricing.Engine,
	feedbackDelay time.Duration,
) *PriceService {
	return &PriceService{
		prices:        prices,
		sets:          sets,
		collection:    collection,
		wishlist:      wishlist,
		engine:        engine,
		feedbackDelay: feedbackDelay,
	}
}

// Engine returns the comparison engine
func (s *PriceService) Engine() *pricing.Engine {
	return s.engine
}

// Search returns an empty page-number list of sets with their retailer prices
func (s *PriceService) Search(query string, signedIn bool) *listsync.PagedList {
	fetch := func(ctx context.Context, page int) ([]models.Set, models.Pagination, error) {
		return s.prices.SearchWithPrices(ctx, query, page)
	}
	return listsync.NewPagedList(fetch, listsync.Options{
		Mode:          listsync.MultiSelect,
		CanMutate:     signedIn,
		FeedbackDelay: s.feedbackDelay,
		Collection:    s.collection,
		Wishlist:      s.wishlist,
	})
}

// Compare fetches the set and its offers in parallel and compares them.
// With refresh the API re-scrapes the offers first.
func (s *PriceService) Compare(ctx context.Context, setNum string, refresh bool) (*models.PriceComparison, error) {
	var detail *models.SetDetail
	var offers []models.PriceOffer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.sets.GetByNum(gctx, setNum)
		return err
	})
	g.Go(func() error {
		var err error
		if refresh {
			offers, err = s.prices.Refresh(gctx, setNum)
		} else {
			offers, err = s.prices.Offers(gctx, setNum)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ ComparePrices: set=%s: %v", setNum, err)
		return nil, err
	}

	result := s.engine.Compare(detail.Set, offers)
	zap.S().Debugf("ComparePrices: set=%s offers=%d skipped=%d", setNum, len(result.Lines), len(result.SkippedLines))
	return &result, nil
}
