package migrations

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/config"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/migration"
)

func init() {
	migration.Register("0001_create_indexes", &CreateIndexes{})
	migration.Register("0002_bootstrap_seller", &BootstrapSeller{})
}

// -------- 0001: indexes --------

type CreateIndexes struct{}

func (m *CreateIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Non-unique: up to three accounts may share an email.
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("login_history").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	return err
}

// -------- 0002: bootstrap seller --------

// BootstrapSeller creates the default seller account if no account with the
// configured seller username exists. Failure here is surfaced but the
// account can also be created later through the seller provisioning route.
type BootstrapSeller struct{}

func (m *BootstrapSeller) Up(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{"username": config.SellerUsername()})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("bootstrap seller already exists", "username", config.SellerUsername())
		return nil
	}

	hashed, err := auth.HashPassword(config.SellerPassword())
	if err != nil {
		return err
	}

	seller := models.User{
		Username:       config.SellerUsername(),
		Email:          config.SellerEmail(),
		HashedPassword: hashed,
		Role:           models.RoleSeller,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = users.InsertOne(ctx, &seller)
	if mongo.IsDuplicateKeyError(err) {
		// Another instance won the race; the account exists either way.
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("bootstrap seller created", "username", seller.Username)
	return nil
}
