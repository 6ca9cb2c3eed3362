package interfaces

import (
	"context"

	"petcare/internal/models"
)

type ZipCodeRepository interface {
	// GetByZip returns ErrNotFound when the ZIP has not been resolved yet.
	GetByZip(ctx context.Context, zip string) (*models.ZipCode, error)
	Upsert(ctx context.Context, zipCode *models.ZipCode) error
}
