package repository

import (
	"context"
	"net/url"
	"strconv"

	"brickvault/apiclient"
	"brickvault/models"
)

// ThemeRepository reads the theme hierarchy
type ThemeRepository struct {
	client *apiclient.Client
}

// NewThemeRepository creates a new ThemeRepository
func NewThemeRepository(client *apiclient.Client) *ThemeRepository {
	return &ThemeRepository{client: client}
}

// Ensure ThemeRepository implements ThemeRepositoryInterface
var _ ThemeRepositoryInterface = (*ThemeRepository)(nil)

// List returns the root themes
func (r *ThemeRepository) List(ctx context.Context) ([]models.Theme, error) {
	payload, err := apiclient.Get[themesPayload](ctx, r.client, pathThemes, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Themes, nil
}

// GetByID returns one theme
func (r *ThemeRepository) GetByID(ctx context.Context, id int) (*models.Theme, error) {
	payload, err := apiclient.Get[themePayload](ctx, r.client, pathTheme, idQuery("id", id)).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Theme, nil
}

// SubThemes returns the direct children of a theme
func (r *ThemeRepository) SubThemes(ctx context.Context, id int) ([]models.Theme, error) {
	payload, err := apiclient.Get[themesPayload](ctx, r.client, pathSubThemes, idQuery("parent_id", id)).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Themes, nil
}

// Sets returns one offset/limit window of a theme's sets
func (r *ThemeRepository) Sets(ctx context.Context, themeID, offset, limit int) ([]models.Set, models.Pagination, error) {
	q := idQuery("theme_id", themeID)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	payload, err := apiclient.Get[setsPayload](ctx, r.client, pathThemeSets, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Sets, payload.Pagination, nil
}

func idQuery(field string, id int) url.Values {
	q := url.Values{}
	q.Set(field, strconv.Itoa(id))
	return q
}
