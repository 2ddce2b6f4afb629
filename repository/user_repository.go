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

// UserRepository handles profiles and admin user management
type UserRepository struct {
	client *apiclient.Client
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *apiclient.Client) *UserRepository {
	return &UserRepository{client: client}
}

// Ensure UserRepository implements UserRepositoryInterface
var _ UserRepositoryInterface = (*UserRepository)(nil)

// PublicSets returns another user's public collection
func (r *UserRepository) PublicSets(ctx context.Context, username string) (*models.User, []models.Set, error) {
	q := url.Values{}
	q.Set("username", username)
	payload, err := apiclient.Get[userSetsPayload](ctx, r.client, pathUserSets, q).Unwrap()
	if err != nil {
		return nil, nil, err
	}
	return payload.User, payload.Sets, nil
}

// Profile returns the public profile of username
func (r *UserRepository) Profile(ctx context.Context, username string) (*models.User, error) {
	q := url.Values{}
	q.Set("username", username)
	payload, err := apiclient.Get[userPayload](ctx, r.client, pathProfile, q).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.User, nil
}

// UpdateProfile saves the signed-in user's editable fields
func (r *UserRepository) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	payload, err := apiclient.Post[userPayload](ctx, r.client, pathUpdateProfile, update).Unwrap()
	if err != nil {
		zap.S().Errorf("❌ UpdateProfile: %v", err)
		return nil, err
	}
	return payload.User, nil
}

// UploadAvatar sends a new avatar image and returns its URL
func (r *UserRepository) UploadAvatar(ctx context.Context, file apiclient.FilePart) (string, error) {
	var payload uploadPayload
	if err := r.client.Upload(ctx, pathUploadAvatar, file, nil, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// List returns one page of users matching filter
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, models.Pagination, error) {
	q := url.Values{}
	setIfPresent(q, "search", filter.Search)
	setIfPresent(q, "status", filter.Status)
	setIfPresent(q, "role", filter.Role)
	q.Set("page", strconv.Itoa(max(filter.Page, 1)))
	payload, err := apiclient.Get[usersPayload](ctx, r.client, pathAdminUsers, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Users, payload.Pagination, nil
}

// Stats returns the admin user counters
func (r *UserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	payload, err := apiclient.Get[userStatsPayload](ctx, r.client, pathAdminUserStats, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// UpdateStatus changes a user's account status
func (r *UserRepository) UpdateStatus(ctx context.Context, userID int, status string) error {
	zap.S().Infof("👤 UpdateUserStatus: user=%d status=%s", userID, status)
	body := map[string]any{"user_id": userID, "status": status}
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathAdminUserStatus, body)
}

// Delete removes a user account
func (r *UserRepository) Delete(ctx context.Context, userID int) error {
	zap.S().Infof("🗑️ DeleteUser: user=%d", userID)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathAdminUserDelete, map[string]int{"user_id": userID})
}

// setIfPresent adds field to q unless value is unconstrained
func setIfPresent(q url.Values, field, value string) {
	if value != "" && value != "all" {
		q.Set(field, value)
	}
}
