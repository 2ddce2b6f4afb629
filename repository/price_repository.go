package repository

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// PriceRepository reads retailer prices for the price tool
type PriceRepository struct {
	client *apiclient.Client
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(client *apiclient.Client) *PriceRepository {
	return &PriceRepository{client: client}
}

// Ensure PriceRepository implements PriceRepositoryInterface
var _ PriceRepositoryInterface = (*PriceRepository)(nil)

// SearchWithPrices returns sets matching query with their per-retailer prices
func (r *PriceRepository) SearchWithPrices(ctx context.Context, query string, page int) ([]models.Set, models.Pagination, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(max(page, 1)))
	payload, err := apiclient.Get[setsPayload](ctx, r.client, pathPriceSearch, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Sets, payload.Pagination, nil
}

// Offers returns the cached offers for a set
func (r *PriceRepository) Offers(ctx context.Context, setNum string) ([]models.PriceOffer, error) {
	q := url.Values{}
	q.Set("set_num", setNum)
	payload, err := apiclient.Get[offersPayload](ctx, r.client, pathPrices, q).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Offers, nil
}

// Refresh asks the API to re-scrape the offers for a set
func (r *PriceRepository) Refresh(ctx context.Context, setNum string) ([]models.PriceOffer, error) {
	zap.S().Infof("💰 RefreshPrices: set=%s", setNum)
	payload, err := apiclient.Post[offersPayload](ctx, r.client, pathPriceRefresh, map[string]string{"setNum": setNum}).Unwrap()
	if err != nil {
		zap.S().Errorf("❌ RefreshPrices: set=%s: %v", setNum, err)
		return nil, err
	}
	return payload.Offers, nil
}
