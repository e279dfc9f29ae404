package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idlikadai/backend/app/models"
)

func init() {
	Register("menu", SeedMenu)
}

// SeedMenu inserts a starter menu for development. Skips when the
// collection already has items so repeated runs do not duplicate.
func SeedMenu(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("menu_items")

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	items := []interface{}{
		&models.MenuItem{
			Name:        "Idli (2 pcs)",
			Description: "Soft steamed rice cakes served with sambar and chutney",
			Price:       40,
			Category:    "Tiffin",
			Available:   true,
			CreatedAt:   now,
		},
		&models.MenuItem{
			Name:        "Ghee Podi Idli",
			Description: "Idli tossed in spiced lentil powder and generous ghee",
			Price:       70,
			Category:    "Tiffin",
			Available:   true,
			CreatedAt:   now,
		},
		&models.MenuItem{
			Name:        "Medu Vada (2 pcs)",
			Description: "Crisp fried lentil doughnuts with sambar and chutney",
			Price:       50,
			Category:    "Tiffin",
			Available:   true,
			CreatedAt:   now,
		},
		&models.MenuItem{
			Name:        "Filter Coffee",
			Description: "South Indian filter coffee brewed strong with milk",
			Price:       30,
			Category:    "Beverages",
			Available:   true,
			CreatedAt:   now,
		},
	}

	_, err = col.InsertMany(ctx, items)
	return err
}
