package service

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"brickvault/models"
	"brickvault/repository"
	"brickvault/utils"
)

// AuthService signs users in and out against the API
type AuthService struct {
	auth repository.AuthRepositoryInterface
}

// NewAuthService creates a new AuthService
func NewAuthService(auth repository.AuthRepositoryInterface) *AuthService {
	return &AuthService{auth: auth}
}

// Login checks the form and signs in. The returned cookies identify the
// user to the API on later requests.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.User, []*http.Cookie, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return nil, nil, &utils.ValidationError{Field: "username", Message: "Username is required."}
	}
	if creds.Password == "" {
		return nil, nil, &utils.ValidationError{Field: "password", Message: "Password is required."}
	}
	user, cookies, err := s.auth.Login(ctx, creds)
	if err != nil {
		zap.S().Warnf("⚠️ Login: user=%s: %v", creds.Username, err)
		return nil, nil, err
	}
	zap.S().Infof("✅ Login: user=%s id=%d", user.Username, user.ID)
	return user, cookies, nil
}

// Logout ends the API session. Failures are logged; the local session is
// dropped regardless.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		zap.S().Warnf("⚠️ Logout: %v", err)
	}
}

// IsAdmin asks the API whether the credentials in ctx belong to an admin.
// Any failure counts as "not an admin".
func (s *AuthService) IsAdmin(ctx context.Context) bool {
	ok, err := s.auth.CheckAdmin(ctx)
	if err != nil {
		zap.S().Warnf("⚠️ CheckAdmin: %v", err)
		return false
	}
	return ok
}

// CurrentUser re-reads the signed-in user
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.auth.CurrentUser(ctx)
}
