package models

import (
	"bytes"
	"encoding/json"
)

// DefaultCartQuantity is used when a cart item is added without a quantity.
const DefaultCartQuantity float64 = 1

// CartItem is one line of the shopping cart.
//
// ProductID is the caller supplied product reference exposed as "id". It is
// not unique: several lines may carry the same reference, and lookups by it
// only ever touch the first match. Key is the storage generated identifier.
type CartItem struct {
	Key         string  `json:"_id" bson:"_id,omitempty" gorm:"primaryKey;column:cart_item_id;type:varchar(36)"`
	ProductID   string  `json:"id" bson:"id" gorm:"column:product_id;index;not null"`
	ProductName string  `json:"productName" bson:"productName" gorm:"not null"`
	Price       string  `json:"price" bson:"price" gorm:"not null"`
	Quantity    float64 `json:"quantity" bson:"quantity" gorm:"not null"`
}

// TableName keeps the collection name shared by all storage backends.
func (CartItem) TableName() string { return "cartitems" }

// OptionalQuantity tells an absent quantity apart from an explicit null.
// Only an absent quantity is defaulted; null is rejected.
type OptionalQuantity struct {
	Value float64
	Set   bool
	Null  bool
}

// UnmarshalJSON runs only when the key is present, null included.
func (q *OptionalQuantity) UnmarshalJSON(b []byte) error {
	q.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		q.Null = true
		return nil
	}
	return json.Unmarshal(b, &q.Value)
}

// AddCartItemRequest is the body accepted by POST /cart.
type AddCartItemRequest struct {
	ID          string           `json:"id" validate:"required"`
	ProductName string           `json:"productName" validate:"required"`
	Price       string           `json:"price" validate:"required"`
	Quantity    OptionalQuantity `json:"quantity"`
}

// ToCartItem builds the record to persist, applying the default quantity.
func (r AddCartItemRequest) ToCartItem() CartItem {
	item := CartItem{
		ProductID:   r.ID,
		ProductName: r.ProductName,
		Price:       r.Price,
		Quantity:    DefaultCartQuantity,
	}
	if r.Quantity.Set && !r.Quantity.Null {
		item.Quantity = r.Quantity.Value
	}
	return item
}

// UpdateQuantityRequest is the body accepted by PUT /cart/:id.
type UpdateQuantityRequest struct {
	Quantity *float64 `json:"quantity" validate:"required"`
}
