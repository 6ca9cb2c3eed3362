package mappers

import (
	"strings"

	"petcare/internal/models"
	"petcare/internal/utils"
	"petcare/pkg/yelp"
)

func FromYelpBusiness(biz yelp.Business, center *utils.Point) models.Place {
	place := models.Place{
		ID:         models.ExternalPlaceID(models.SourceYelp, biz.ID),
		ExternalID: models.StringPtr(biz.ID),
		Name:       biz.Name,
		Address:    utils.JoinAddress(biz.Location.DisplayAddress...),
		Zipcode:    biz.Location.ZipCode,
		Type:       models.PlaceTypeVet,
		Source:     models.SourceYelp,
	}

	if biz.Coordinates.Latitude != nil && biz.Coordinates.Longitude != nil {
		place.SetCoordinates(*biz.Coordinates.Latitude, *biz.Coordinates.Longitude)
	}
	if biz.Rating > 0 {
		place.Rating = models.Float64Ptr(biz.Rating)
		place.ReviewCount = models.IntPtr(biz.ReviewCount)
	}
	if n := strings.Count(biz.Price, "$"); n > 0 {
		place.PriceLevel = models.IntPtr(n)
	}
	if biz.ImageURL != "" {
		place.Photos = []string{biz.ImageURL}
	}
	for _, c := range biz.Categories {
		if c.Title != "" {
			place.Services = append(place.Services, c.Title)
		}
	}

	phone := biz.DisplayPhone
	if phone == "" {
		phone = biz.Phone
	}
	setContact(&place, phone, biz.URL)

	if biz.Distance != nil {
		place.DistanceKm = nativeDistanceKm(utils.MetersToKm(*biz.Distance))
	}
	BackfillDistance(&place, center)

	return place
}
