package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/database"
)

// UserRepository handles the users collection.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// col resolves lazily so constructing a repository never requires a live
// database connection.
func (r *UserRepository) col() *mongo.Collection {
	return database.Collection("users")
}

// FindByUsername returns the account, or nil when absent.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.col().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by username: %w", err)
	}
	return &user, nil
}

// FindByID returns the account, or nil when the id is malformed or absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user models.User
	err = r.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by id: %w", err)
	}
	return &user, nil
}

// FindSeller returns the first account with the seller role, or nil.
func (r *UserRepository) FindSeller(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.col().FindOne(ctx, bson.M{"role": models.RoleSeller}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find seller: %w", err)
	}
	return &user, nil
}

// CountByEmail counts accounts whose (lower-cased) email matches.
func (r *UserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	n, err := r.col().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("users: count by email: %w", err)
	}
	return n, nil
}

// Create persists a new account and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.col().InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// IsDuplicate reports whether err is a unique-index violation.
func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
