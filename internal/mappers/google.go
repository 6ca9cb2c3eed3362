package mappers

import (
	"petcare/internal/models"
	"petcare/internal/utils"
	"petcare/pkg/maps"
)

// FromGooglePlace maps a nearby-search result. zip is the resolved search ZIP,
// used because nearby results carry no postal code.
func FromGooglePlace(result maps.PlaceResult, center *utils.Point, zip string) models.Place {
	address := result.FormattedAddress
	if address == "" {
		address = result.Vicinity
	}

	place := models.Place{
		ID:         models.ExternalPlaceID(models.SourceGoogle, result.PlaceID),
		ExternalID: models.StringPtr(result.PlaceID),
		Name:       result.Name,
		Address:    address,
		Zipcode:    zip,
		Type:       models.PlaceTypeVet,
		Source:     models.SourceGoogle,
	}

	if utils.IsValidCoordinates(result.Location.Latitude, result.Location.Longitude) &&
		(result.Location.Latitude != 0 || result.Location.Longitude != 0) {
		place.SetCoordinates(result.Location.Latitude, result.Location.Longitude)
	}
	if result.Rating > 0 {
		place.Rating = models.Float64Ptr(result.Rating)
		place.ReviewCount = models.IntPtr(result.UserRatingsTotal)
	}
	if result.PriceLevel > 0 {
		place.PriceLevel = models.IntPtr(result.PriceLevel)
	}
	if len(result.PhotoReferences) > 0 {
		place.Photos = append([]string(nil), result.PhotoReferences...)
	}

	setContact(&place, result.Phone, result.Website)
	BackfillDistance(&place, center)

	return place
}
