package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"brickvault/models"
	"brickvault/repository"
)

// PrefShowPrices is the preference key of the price column toggle
const PrefShowPrices = "showPrices"

// DraftService autosaves the blog editor and stores display preferences
type DraftService struct {
	prefs repository.PreferenceRepositoryInterface
}

// NewDraftService creates a new DraftService
func NewDraftService(prefs repository.PreferenceRepositoryInterface) *DraftService {
	return &DraftService{prefs: prefs}
}

// DraftKey returns the storage key of the editor form for a post, or for a
// new post when postID is 0
func DraftKey(postID int) string {
	if postID <= 0 {
		return "blog_editor_form_new"
	}
	return fmt.Sprintf("blog_editor_form_%d", postID)
}

// Load returns the autosaved form, or nil. Store failures are logged and
// treated as no draft.
func (s *DraftService) Load(ctx context.Context, userID, postID int) *models.BlogDraft {
	draft, err := s.prefs.LoadDraft(ctx, userID, DraftKey(postID))
	if err != nil {
		zap.S().Warnf("⚠️ LoadDraft: user=%d key=%s: %v", userID, DraftKey(postID), err)
		return nil
	}
	return draft
}

// Autosave stores the current form
func (s *DraftService) Autosave(ctx context.Context, userID, postID int, form models.BlogDraft) error {
	if err := s.prefs.SaveDraft(ctx, userID, DraftKey(postID), form); err != nil {
		zap.S().Errorf("❌ AutosaveDraft: user=%d key=%s: %v", userID, DraftKey(postID), err)
		return err
	}
	return nil
}

// Discard removes the autosaved form
func (s *DraftService) Discard(ctx context.Context, userID, postID int) {
	if err := s.prefs.DeleteDraft(ctx, userID, DraftKey(postID)); err != nil {
		zap.S().Warnf("⚠️ DiscardDraft: user=%d key=%s: %v", userID, DraftKey(postID), err)
	}
}

// ShowPrices returns the price column toggle; prices are shown by default
func (s *DraftService) ShowPrices(ctx context.Context, userID int) bool {
	v, ok, err := s.prefs.GetPreference(ctx, userID, PrefShowPrices)
	if err != nil || !ok {
		return true
	}
	show, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return show
}

// SetShowPrices stores the price column toggle
func (s *DraftService) SetShowPrices(ctx context.Context, userID int, show bool) error {
	return s.prefs.SetPreference(ctx, userID, PrefShowPrices, strconv.FormatBool(show))
}
