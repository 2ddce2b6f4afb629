package repository

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// WishlistRepository reads and mutates the signed-in user's wishlist
type WishlistRepository struct {
	client *apiclient.Client
}

// NewWishlistRepository creates a new WishlistRepository
func NewWishlistRepository(client *apiclient.Client) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// Ensure WishlistRepository implements WishlistRepositoryInterface
var _ WishlistRepositoryInterface = (*WishlistRepository)(nil)

// List returns every set on the wishlist
func (r *WishlistRepository) List(ctx context.Context) ([]models.Set, error) {
	payload, err := apiclient.Get[setsPayload](ctx, r.client, pathWishlist, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Sets, nil
}

// Add adds sets to the wishlist in one request
func (r *WishlistRepository) Add(ctx context.Context, items []models.AddItem) error {
	zap.S().Infof("📦 AddToWishlist: Adding %d sets", len(items))
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathWishlistAdd, items)
}

// Remove deletes one set from the wishlist
func (r *WishlistRepository) Remove(ctx context.Context, setNum string) error {
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathWishlistRemove, map[string]string{"setNum": setNum})
}

// MoveToCollection converts a wishlist entry into a collection entry.
// The API performs the move atomically.
func (r *WishlistRepository) MoveToCollection(ctx context.Context, setNum string) error {
	zap.S().Infof("🔁 MoveToCollection: set=%s", setNum)
	if err := apiclient.Exec(ctx, r.client, http.MethodPost, pathWishlistMove, map[string]string{"setNum": setNum}); err != nil {
		zap.S().Errorf("❌ MoveToCollection: set=%s: %v", setNum, err)
		return err
	}
	return nil
}
