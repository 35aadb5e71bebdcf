package repositories

import (
	"context"

	"shoeshop/internal/models"
)

// CartRepository defines the interface for cart item data access.
//
// Cart items are addressed by their caller supplied product id, which is not
// unique. DeleteFirst and UpdateQuantity only ever touch the first match.
type CartRepository interface {
	GetAll(ctx context.Context) ([]models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	DeleteFirst(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, quantity float64) (*models.CartItem, error)
}
