package repositories

import (
	"context"
	"fmt"

	"shoeshop/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCartRepository stores cart lines in the "cartitems" collection.
type MongoCartRepository struct {
	coll *mongo.Collection
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{coll: db.Collection(cartCollection)}
}

func (r *MongoCartRepository) GetAll(ctx context.Context) ([]models.CartItem, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	items := []models.CartItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func (r *MongoCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if item.Key == "" {
		item.Key = newObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create cart item: %w", mongoError(err))
	}
	return nil
}

// DeleteFirst removes the first document whose id field equals productID.
func (r *MongoCartRepository) DeleteFirst(ctx context.Context, productID string) error {
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"id": productID}).Err(); err != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", productID, mongoError(err))
	}
	return nil
}

// UpdateQuantity sets quantity on the first document whose id field equals
// productID and returns the document as it is after the update.
func (r *MongoCartRepository) UpdateQuantity(ctx context.Context, productID string, quantity float64) (*models.CartItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.CartItem
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": productID},
		bson.M{"$set": bson.M{"quantity": quantity}},
		opts,
	).Decode(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", productID, mongoError(err))
	}
	return &item, nil
}
