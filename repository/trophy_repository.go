package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// TrophyRepository manages trophies and their holders
type TrophyRepository struct {
	client *apiclient.Client
}

// NewTrophyRepository creates a new TrophyRepository
func NewTrophyRepository(client *apiclient.Client) *TrophyRepository {
	return &TrophyRepository{client: client}
}

// Ensure TrophyRepository implements TrophyRepositoryInterface
var _ TrophyRepositoryInterface = (*TrophyRepository)(nil)

// List returns one offset/limit window of trophies
func (r *TrophyRepository) List(ctx context.Context, offset, limit int) ([]models.Trophy, models.Pagination, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	payload, err := apiclient.Get[trophiesPayload](ctx, r.client, pathTrophies, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Trophies, payload.Pagination, nil
}

// Stats returns the trophy counters
func (r *TrophyRepository) Stats(ctx context.Context) (*models.TrophyStats, error) {
	payload, err := apiclient.Get[trophyStatsPayload](ctx, r.client, pathTrophyStats, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// Create adds a new trophy
func (r *TrophyRepository) Create(ctx context.Context, trophy models.Trophy) error {
	zap.S().Infof("🏆 CreateTrophy: name=%q points=%d", trophy.Name, trophy.Points)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathTrophyCreate, trophy)
}

// Delete removes a trophy
func (r *TrophyRepository) Delete(ctx context.Context, id int) error {
	zap.S().Infof("🗑️ DeleteTrophy: id=%d", id)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathTrophyDelete, map[string]int{"trophy_id": id})
}

// UserTrophies returns the trophies a user holds
func (r *TrophyRepository) UserTrophies(ctx context.Context, userID int) ([]models.Trophy, error) {
	payload, err := apiclient.Get[trophiesPayload](ctx, r.client, pathUserTrophies, idQuery("user_id", userID)).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Trophies, nil
}

// Assign awards a trophy to a user
func (r *TrophyRepository) Assign(ctx context.Context, a models.TrophyAssignment) error {
	zap.S().Infof("🏆 AssignTrophy: user=%d trophy=%d", a.UserID, a.TrophyID)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathTrophyAssign, a)
}

// Unassign takes a trophy away from a user
func (r *TrophyRepository) Unassign(ctx context.Context, a models.TrophyAssignment) error {
	zap.S().Infof("🏆 UnassignTrophy: user=%d trophy=%d", a.UserID, a.TrophyID)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathTrophyUnassign, a)
}
