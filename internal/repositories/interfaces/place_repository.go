package interfaces

import (
	"context"
	"errors"

	"petcare/internal/models"
	"petcare/internal/utils"
)

var ErrNotFound = errors.New("record not found")

type PlaceRepository interface {
	// FindInBoundingBox returns stored places of the given type inside box.
	// An empty placeType matches every type. Rows are not distance filtered.
	FindInBoundingBox(ctx context.Context, box utils.BoundingBox, placeType models.PlaceType) ([]*models.StoredPlace, error)
	GetByID(ctx context.Context, id string) (*models.StoredPlace, error)
}
