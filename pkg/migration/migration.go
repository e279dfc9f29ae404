// Package migration provides a MongoDB migration runner.
//
// Migrations create indexes and seed bootstrap documents. Each one is
// registered with a sortable name and applied at most once; applied names
// are tracked in the schema_migrations collection.
//
//	func init() {
//	    migration.Register("0001_create_indexes", &CreateIndexes{})
//	}
//
//	type CreateIndexes struct{}
//	func (m *CreateIndexes) Up(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	kadai migrate          // run all pending
//	kadai migrate:status   // show applied vs pending
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idlikadai/backend/pkg/logger"
)

const trackingCollection = "schema_migrations"

// Migration is the interface every migration must implement. Down is
// omitted on purpose: index drops and document removals are performed by
// hand when needed, never automatically.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
}

type migrationRecord struct {
	Name  string    `bson:"name"`
	RunAt time.Time `bson:"run_at"`
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. name should be a
// sortable ordinal-prefixed string, e.g. "0001_create_indexes". Call
// Register from an init() in each migration file.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *mongo.Database
}

// New creates a Runner backed by the provided database.
func New(db *mongo.Database) *Runner {
	return &Runner{db: db}
}

// EnsureIndexes creates the unique name index on the tracking collection so
// concurrent runners cannot double-apply a migration.
func (r *Runner) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(trackingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Pending returns the registered migrations that have not yet been applied,
// sorted by name.
func (r *Runner) Pending(ctx context.Context) ([]registeredMigration, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !applied[reg.name] {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})

	return pending, nil
}

// Run applies all pending migrations in order.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("migration: ensure tracking indexes: %w", err)
	}

	pending, err := r.Pending(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		return nil
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, RunAt: time.Now().UTC()}
		if _, err := r.db.Collection(trackingCollection).InsertOne(ctx, record); err != nil {
			// A duplicate name means another runner applied it first.
			if mongo.IsDuplicateKeyError(err) {
				logger.Warn("migration: already recorded by another runner", "name", reg.name)
				continue
			}
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		logger.Info("migration: applied", "name", reg.name)
	}

	return nil
}

// Status prints each registered migration and whether it has been applied.
func (r *Runner) Status(ctx context.Context) error {
	applied, err := r.applied(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-40s  %s\n", "Migration", "Status")
	for _, reg := range registry {
		status := "Pending"
		if applied[reg.name] {
			status = "Ran"
		}
		fmt.Printf("%-40s  %s\n", reg.name, status)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	cur, err := r.db.Collection(trackingCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	applied := make(map[string]bool)
	for cur.Next(ctx) {
		var rec migrationRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		applied[rec.Name] = true
	}
	return applied, cur.Err()
}
