package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"brickvault/models"
)

// PreferenceRepository stores display preferences and editor drafts in PostgreSQL
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository over conn
func NewPreferenceRepository(conn *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: conn}
}

// Ensure PreferenceRepository implements PreferenceRepositoryInterface
var _ PreferenceRepositoryInterface = (*PreferenceRepository)(nil)

// GetPreference returns the stored value of key and whether it was set
func (r *PreferenceRepository) GetPreference(ctx context.Context, userID int, key string) (string, bool, error) {
	query := `SELECT value FROM user_preferences WHERE user_id = $1 AND key = $2`
	var value string
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		zap.S().Errorf("❌ GetPreference: user=%d key=%s: %v", userID, key, err)
		return "", false, fmt.Errorf("failed to read preference: %w", err)
	}
	return value, true, nil
}

// SetPreference stores value under key
func (r *PreferenceRepository) SetPreference(ctx context.Context, userID int, key, value string) error {
	query := `
		INSERT INTO user_preferences (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, value); err != nil {
		zap.S().Errorf("❌ SetPreference: user=%d key=%s: %v", userID, key, err)
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

// LoadDraft returns the autosaved editor form under key, or nil when none exists
func (r *PreferenceRepository) LoadDraft(ctx context.Context, userID int, key string) (*models.BlogDraft, error) {
	query := `SELECT payload FROM editor_drafts WHERE user_id = $1 AND draft_key = $2`
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	var draft models.BlogDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		// a corrupt draft is dropped rather than blocking the editor
		zap.S().Warnf("⚠️ LoadDraft: discarding unreadable draft user=%d key=%s: %v", userID, key, err)
		return nil, nil
	}
	return &draft, nil
}

// SaveDraft stores the editor form under key
func (r *PreferenceRepository) SaveDraft(ctx context.Context, userID int, key string, draft models.BlogDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	query := `
		INSERT INTO editor_drafts (user_id, draft_key, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, draft_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, payload); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// DeleteDraft removes the draft under key
func (r *PreferenceRepository) DeleteDraft(ctx context.Context, userID int, key string) error {
	query := `DELETE FROM editor_drafts WHERE user_id = $1 AND draft_key = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, key); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// MemoryPreferenceRepository keeps preferences and drafts in process memory.
// It is used when no database is configured.
type MemoryPreferenceRepository struct {
	mu     sync.RWMutex
	prefs  map[string]string
	drafts map[string]models.BlogDraft
}

// NewMemoryPreferenceRepository creates an empty MemoryPreferenceRepository
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{
		prefs:  make(map[string]string),
		drafts: make(map[string]models.BlogDraft),
	}
}

// Ensure MemoryPreferenceRepository implements PreferenceRepositoryInterface
var _ PreferenceRepositoryInterface = (*MemoryPreferenceRepository)(nil)

func memoryKey(userID int, key string) string {
	return strconv.Itoa(userID) + ":" + key
}

// GetPreference returns the stored value of key and whether it was set
func (r *MemoryPreferenceRepository) GetPreference(_ context.Context, userID int, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.prefs[memoryKey(userID, key)]
	return v, ok, nil
}

// SetPreference stores value under key
func (r *MemoryPreferenceRepository) SetPreference(_ context.Context, userID int, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[memoryKey(userID, key)] = value
	return nil
}

// LoadDraft returns the draft under key, or nil when none exists
func (r *MemoryPreferenceRepository) LoadDraft(_ context.Context, userID int, key string) (*models.BlogDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[memoryKey(userID, key)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// SaveDraft stores the draft under key
func (r *MemoryPreferenceRepository) SaveDraft(_ context.Context, userID int, key string, draft models.BlogDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[memoryKey(userID, key)] = draft
	return nil
}

// DeleteDraft removes the draft under key
func (r *MemoryPreferenceRepository) DeleteDraft(_ context.Context, userID int, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, memoryKey(userID, key))
	return nil
}
