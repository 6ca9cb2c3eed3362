package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petcare/pkg/logger"
)

const (
	ZipCodesCollection   = "zip_codes"
	migrationsCollection = "migrations"
)

// Migration is a versioned change to the MongoDB collections.
type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

// NewMigrator builds the Mongo migrator. zipCacheTTL sets the expiry index on cached ZIP centroids.
func NewMigrator(db *mongo.Database, zipCacheTTL time.Duration, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(zipCacheTTL),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Running migration: %s", migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Reverting migration: %s", migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version-1); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(migrationsCollection).FindOne(ctx, bson.D{}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(migrationsCollection).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

func getMigrations(zipCacheTTL time.Duration) []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create zip_codes collection with indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createZipCodeIndexes(ctx, db, zipCacheTTL)
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				return db.Collection(ZipCodesCollection).Drop(ctx)
			},
		},
	}
}

func createZipCodeIndexes(ctx context.Context, db *mongo.Database, ttl time.Duration) error {
	collection := db.Collection(ZipCodesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "zip", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
	}

	if ttl > 0 {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "resolved_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		})
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
