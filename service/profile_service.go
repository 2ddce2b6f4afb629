package service

import (
	"context"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"brickvault/models"
	"brickvault/repository"
	"brickvault/utils"
)

// ProfileService reads and edits user profiles
type ProfileService struct {
	users   repository.UserRepositoryInterface
	uploads *UploadService
}

// NewProfileService creates a new ProfileService
func NewProfileService(users repository.UserRepositoryInterface, uploads *UploadService) *ProfileService {
	return &ProfileService{users: users, uploads: uploads}
}

// Profile returns the public profile of username
func (s *ProfileService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.users.Profile(ctx, username)
}

// Update validates and saves the bio and location
func (s *ProfileService) Update(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	update.Bio = strings.TrimSpace(update.Bio)
	update.Location = strings.TrimSpace(update.Location)
	if err := utils.ValidateProfile(update); err != nil {
		return nil, err
	}
	return s.users.UpdateProfile(ctx, update)
}

// UploadAvatar validates, downsizes and uploads a new avatar. Nothing is
// sent when validation fails.
func (s *ProfileService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	part, err := s.uploads.Prepare(file, header, s.uploads.AvatarPolicy())
	if err != nil {
		return "", err
	}
	url, err := s.users.UploadAvatar(ctx, part)
	if err != nil {
		zap.S().Errorf("❌ UploadAvatar: %v", err)
		return "", err
	}
	return url, nil
}
