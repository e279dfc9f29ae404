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

// MenuRepository handles the menu_items collection.
type MenuRepository struct{}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

func (r *MenuRepository) col() *mongo.Collection {
	return database.Collection("menu_items")
}

// ListAvailable returns every item with available=true, in storage order.
func (r *MenuRepository) ListAvailable(ctx context.Context) ([]models.MenuItem, error) {
	cur, err := r.col().Find(ctx, bson.M{"available": true})
	if err != nil {
		return nil, fmt.Errorf("menu: list: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.MenuItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("menu: decode: %w", err)
	}
	return items, nil
}

// FindByID returns the item, or nil when the id is malformed or absent.
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var item models.MenuItem
	err = r.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("menu: find: %w", err)
	}
	return &item, nil
}

// Create persists a new item and fills in its generated id.
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	res, err := r.col().InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("menu: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

// Replace overwrites the whole document. Unset fields in item become absent,
// not preserved. Returns false when the id is malformed or absent.
func (r *MenuRepository) Replace(ctx context.Context, id string, item *models.MenuItem) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	item.ID = oid
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": oid}, item)
	if err != nil {
		return false, fmt.Errorf("menu: replace: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the item permanently. Returns false when the id is
// malformed or absent.
func (r *MenuRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("menu: delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}
