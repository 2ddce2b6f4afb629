package repository

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// AuthRepository signs users in against the API and checks their role
type AuthRepository struct {
	client *apiclient.Client
}

// NewAuthRepository creates a new AuthRepository
func NewAuthRepository(client *apiclient.Client) *AuthRepository {
	return &AuthRepository{client: client}
}

// Ensure AuthRepository implements AuthRepositoryInterface
var _ AuthRepositoryInterface = (*AuthRepository)(nil)

// Login posts the credentials and returns the user together with the
// session cookies the API issued for them.
func (r *AuthRepository) Login(ctx context.Context, creds models.Credentials) (*models.User, []*http.Cookie, error) {
	zap.S().Infof("🔐 Login: Signing in user=%s", creds.Username)

	resp, err := r.client.DoRaw(ctx, http.MethodPost, pathLogin, creds)
	if err != nil {
		zap.S().Errorf("❌ Login: Transport error for user=%s: %v", creds.Username, err)
		return nil, nil, err
	}

	var payload userPayload
	if err := resp.Decode(pathLogin, &payload); err != nil {
		zap.S().Warnf("❌ Login: Rejected user=%s: %v", creds.Username, err)
		return nil, nil, err
	}
	if len(resp.Cookies) == 0 {
		return nil, nil, fmt.Errorf("login succeeded but the API set no session cookie")
	}

	zap.S().Infof("✅ Login: Signed in user id=%d", payload.User.ID)
	return payload.User, resp.Cookies, nil
}

// Logout ends the API session carried in ctx
func (r *AuthRepository) Logout(ctx context.Context) error {
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathLogout, nil)
}

// CurrentUser returns the user the API session in ctx belongs to
func (r *AuthRepository) CurrentUser(ctx context.Context) (*models.User, error) {
	payload, err := apiclient.Get[userPayload](ctx, r.client, pathSession, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.User, nil
}

// CheckAdmin asks the API whether the session in ctx belongs to an admin
func (r *AuthRepository) CheckAdmin(ctx context.Context) (bool, error) {
	payload, err := apiclient.Get[adminCheckPayload](ctx, r.client, pathCheckAdmin, nil).Unwrap()
	if err != nil {
		return false, err
	}
	return payload.IsAdmin, nil
}
