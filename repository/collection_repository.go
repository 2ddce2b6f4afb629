package repository

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// CollectionRepository reads and mutates the signed-in user's collection
type CollectionRepository struct {
	client *apiclient.Client
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(client *apiclient.Client) *CollectionRepository {
	return &CollectionRepository{client: client}
}

// Ensure CollectionRepository implements CollectionRepositoryInterface
var _ CollectionRepositoryInterface = (*CollectionRepository)(nil)

// List returns every set in the collection
func (r *CollectionRepository) List(ctx context.Context) ([]models.Set, error) {
	payload, err := apiclient.Get[collectionPayload](ctx, r.client, pathCollection, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Sets, nil
}

// Stats returns the server-side collection counters
func (r *CollectionRepository) Stats(ctx context.Context) (*models.CollectionStats, error) {
	payload, err := apiclient.Get[collectionStatsPayload](ctx, r.client, pathCollectionStats, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// Add adds sets with quantities in one request
// Example request: [{"setNum": "10220-1", "quantity": 1}]
func (r *CollectionRepository) Add(ctx context.Context, items []models.AddItem) error {
	zap.S().Infof("📦 AddToCollection: Adding %d sets", len(items))
	if err := apiclient.Exec(ctx, r.client, http.MethodPost, pathCollectionAdd, items); err != nil {
		zap.S().Errorf("❌ AddToCollection: %v", err)
		return err
	}
	return nil
}

// UpdateQuantity sets the owned quantity of one set
func (r *CollectionRepository) UpdateQuantity(ctx context.Context, setNum string, quantity int) error {
	body := map[string]any{"setNum": setNum, "quantity": quantity}
	if err := apiclient.Exec(ctx, r.client, http.MethodPost, pathCollectionQty, body); err != nil {
		zap.S().Errorf("❌ UpdateQuantity: set=%s quantity=%d: %v", setNum, quantity, err)
		return err
	}
	return nil
}

// SetComplete sets the complete flag of one set
func (r *CollectionRepository) SetComplete(ctx context.Context, setNum string, complete bool) error {
	flag := 0
	if complete {
		flag = 1
	}
	body := map[string]any{"setNum": setNum, "complete": flag}
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathCollectionDone, body)
}

// Remove deletes one set from the collection
func (r *CollectionRepository) Remove(ctx context.Context, setNum string) error {
	zap.S().Infof("🗑️ RemoveFromCollection: set=%s", setNum)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathCollectionRemove, map[string]string{"setNum": setNum})
}
