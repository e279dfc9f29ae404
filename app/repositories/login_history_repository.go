package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/database"
)

// LoginHistoryRepository handles the append-only login_history collection.
// There is deliberately no update or delete.
type LoginHistoryRepository struct{}

func NewLoginHistoryRepository() *LoginHistoryRepository {
	return &LoginHistoryRepository{}
}

func (r *LoginHistoryRepository) col() *mongo.Collection {
	return database.Collection("login_history")
}

// Insert appends one audit entry.
func (r *LoginHistoryRepository) Insert(ctx context.Context, entry *models.LoginHistory) error {
	res, err := r.col().InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("login_history: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *LoginHistoryRepository) Recent(ctx context.Context, limit int64) ([]models.LoginHistory, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("login_history: find: %w", err)
	}
	defer cur.Close(ctx)

	entries := []models.LoginHistory{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("login_history: decode: %w", err)
	}
	return entries, nil
}
