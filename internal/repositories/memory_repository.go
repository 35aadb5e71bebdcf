package repositories

import (
	"context"
	"fmt"
	"sync"

	"shoeshop/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users []models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

// Create adds a new user, enforcing email uniqueness.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w: email %s", ErrDuplicateKey, user.Email)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) GetByUsernameOrEmail(_ context.Context, identifier string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", identifier, ErrNotFound)
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products []models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{}
}

// GetAll returns all products in insertion order.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products = append(r.products, *product)
	return nil
}

// MemoryCartRepository is an in-memory implementation of CartRepository.
type MemoryCartRepository struct {
	items []models.CartItem
	mu    sync.RWMutex
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{}
}

func (r *MemoryCartRepository) GetAll(_ context.Context) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *MemoryCartRepository) Create(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.Key == "" {
		item.Key = uuid.New().String()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *MemoryCartRepository) DeleteFirst(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *MemoryCartRepository) UpdateQuantity(_ context.Context, productID string, quantity float64) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(productID)
	if i < 0 {
		return nil, fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	r.items[i].Quantity = quantity
	item := r.items[i]
	return &item, nil
}

// indexOf must be called with mu held.
func (r *MemoryCartRepository) indexOf(productID string) int {
	for i, item := range r.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
