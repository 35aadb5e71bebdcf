package repositories

import (
	"context"
	"fmt"

	"shoeshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetAll retrieves all cart items in the table's natural order.
func (r *GORMCartRepository) GetAll(ctx context.Context) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

// Create stores a new cart line. Existing lines with the same product id are left alone.
func (r *GORMCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if item.Key == "" {
		item.Key = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", gormError(err))
	}
	return nil
}

// DeleteFirst removes the first cart line carrying productID.
func (r *GORMCartRepository) DeleteFirst(ctx context.Context, productID string) error {
	item, err := r.first(ctx, productID)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(item)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		// removed concurrently between lookup and delete
		return fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	return nil
}

// UpdateQuantity overwrites the quantity of the first cart line carrying productID
// and returns the updated line.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, productID string, quantity float64) (*models.CartItem, error) {
	item, err := r.first(ctx, productID)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(item).Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		// removed concurrently between lookup and update
		return nil, fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	item.Quantity = quantity
	return item, nil
}

func (r *GORMCartRepository) first(ctx context.Context, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Take(&item, "product_id = ?", productID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart item %s: %w", productID, gormError(err))
	}
	return &item, nil
}
