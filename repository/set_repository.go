package repository

import (
	"context"
	"net/url"
	"strconv"

	"brickvault/apiclient"
	"brickvault/models"
)

// SetRepository reads the set catalogue
type SetRepository struct {
	client *apiclient.Client
}

// NewSetRepository creates a new SetRepository
func NewSetRepository(client *apiclient.Client) *SetRepository {
	return &SetRepository{client: client}
}

// Ensure SetRepository implements SetRepositoryInterface
var _ SetRepositoryInterface = (*SetRepository)(nil)

// Search returns one page of sets matching query
func (r *SetRepository) Search(ctx context.Context, query string, page int) ([]models.Set, models.Pagination, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(max(page, 1)))
	payload, err := apiclient.Get[setsPayload](ctx, r.client, pathSearchSets, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Sets, payload.Pagination, nil
}

// GetByNum returns the detail of one set
func (r *SetRepository) GetByNum(ctx context.Context, setNum string) (*models.SetDetail, error) {
	q := url.Values{}
	q.Set("set_num", setNum)
	payload, err := apiclient.Get[setPayload](ctx, r.client, pathGetSet, q).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Set, nil
}

// Latest returns the most recently released sets
func (r *SetRepository) Latest(ctx context.Context, limit int) ([]models.Set, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	payload, err := apiclient.Get[setsPayload](ctx, r.client, pathLatestSets, q).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Sets, nil
}
