package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petcare/internal/models"
	"petcare/internal/repositories/interfaces"
	"petcare/pkg/database"
)

type zipCodeRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

// NewZipCodeRepository stores resolved ZIP centroids. Entries older than ttl are
// treated as missing; ttl <= 0 keeps them forever.
func NewZipCodeRepository(db *mongo.Database, ttl time.Duration) interfaces.ZipCodeRepository {
	return &zipCodeRepository{
		collection: db.Collection(database.ZipCodesCollection),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (r *zipCodeRepository) GetByZip(ctx context.Context, zip string) (*models.ZipCode, error) {
	filter := bson.M{"zip": zip}
	if r.ttl > 0 {
		filter["resolved_at"] = bson.M{"$gt": r.now().Add(-r.ttl)}
	}

	var zipCode models.ZipCode
	err := r.collection.FindOne(ctx, filter).Decode(&zipCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get zip code: %w", err)
	}

	return &zipCode, nil
}

func (r *zipCodeRepository) Upsert(ctx context.Context, zipCode *models.ZipCode) error {
	if zipCode.ResolvedAt.IsZero() {
		zipCode.ResolvedAt = r.now()
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"zip": zipCode.Zip},
		bson.M{"$set": bson.M{
			"location":    zipCode.Location,
			"source":      zipCode.Source,
			"resolved_at": zipCode.ResolvedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to cache zip code: %w", err)
	}

	return nil
}
