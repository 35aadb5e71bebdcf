package repositories

import (
	"context"
	"fmt"
	"sync"

	"shoeshop/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository stores users in the "users" collection.
//
// The unique index on email is created before the first insert and retried
// on every insert until it exists.
type MongoUserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection

	mu      sync.Mutex
	indexed bool
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db, coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the users.email unique index once. Failures are
// returned and the next call tries again.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}
	if err := EnsureMongoIndexes(ctx, r.db); err != nil {
		return err
	}
	r.indexed = true
	return nil
}

// Create inserts user. A second user with the same email fails with
// ErrDuplicateKey. No user is inserted while the email index is missing.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if user.ID == "" {
		user.ID = newObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", mongoError(err))
	}
	return nil
}

func (r *MongoUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}}
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", identifier, mongoError(err))
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, mongoError(err))
	}
	return &user, nil
}
