package mappers

import (
	"petcare/internal/models"
	"petcare/internal/utils"
)

// FromStoredPlace maps a row of the internal store. center may be nil.
func FromStoredPlace(stored *models.StoredPlace, center *utils.Point) models.Place {
	place := models.Place{
		ID:          stored.ID,
		Name:        stored.Name,
		Address:     stored.Address,
		Zipcode:     stored.Zipcode,
		Type:        stored.Type,
		Rating:      stored.Rating,
		ReviewCount: stored.ReviewCount,
		Source:      models.SourceDB,
	}

	if stored.Lat != nil && stored.Lng != nil {
		place.SetCoordinates(*stored.Lat, *stored.Lng)
	}

	var phone, website string
	if stored.Phone != nil {
		phone = *stored.Phone
	}
	if stored.Website != nil {
		website = *stored.Website
	}
	setContact(&place, phone, website)
	BackfillDistance(&place, center)

	return place
}
