package services

import (
	"context"

	"shoeshop/internal/models"
	"shoeshop/internal/repositories"
)

// CartService handles the shopping cart.
type CartService struct {
	repo   repositories.CartRepository
	events EventPublisher
}

// NewCartService creates a new CartService. events may be nil.
func NewCartService(repo repositories.CartRepository, events EventPublisher) *CartService {
	return &CartService{
		repo:   repo,
		events: events,
	}
}

// GetItems retrieves every cart line.
func (s *CartService) GetItems(ctx context.Context) ([]models.CartItem, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// AddItem stores a new cart line. The referenced product is not checked and
// lines with the same product id are not merged.
func (s *CartService) AddItem(ctx context.Context, item *models.CartItem) error {
	if err := s.repo.Create(ctx, item); err != nil {
		return err
	}
	publish(s.events, EventCartItemAdded, item)
	return nil
}

// RemoveItem deletes the first line whose product id equals id.
func (s *CartService) RemoveItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteFirst(ctx, id); err != nil {
		return err
	}
	publish(s.events, EventCartItemRemoved, map[string]string{"id": id})
	return nil
}

// UpdateQuantity overwrites the quantity of the first line whose product id equals id.
func (s *CartService) UpdateQuantity(ctx context.Context, id string, quantity float64) (*models.CartItem, error) {
	item, err := s.repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	publish(s.events, EventCartItemUpdated, item)
	return item, nil
}
