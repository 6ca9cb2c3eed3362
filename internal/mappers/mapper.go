// Package mappers converts provider payloads into canonical places.
package mappers

import (
	"petcare/internal/models"
	"petcare/internal/utils"
)

// distancePrecision is the number of decimals kept on distanceKm.
const distancePrecision = 3

func setContact(place *models.Place, phone, website string) {
	if digits, ok := utils.NormalizePhone(phone); ok {
		place.Phone = &digits
	}
	if normalized, ok := utils.NormalizeWebsite(website); ok {
		place.Website = &normalized
	}
}

// BackfillDistance sets distanceKm from center when the place has coordinates
// and no distance of its own. It reports whether a distance is now present.
func BackfillDistance(place *models.Place, center *utils.Point) bool {
	if place.DistanceKm != nil {
		return true
	}
	if center == nil || !place.HasCoordinates() {
		return false
	}
	d := utils.RoundTo(utils.HaversineKm(center.Lat, center.Lng, *place.Lat, *place.Lng), distancePrecision)
	place.DistanceKm = &d
	return true
}

func nativeDistanceKm(km float64) *float64 {
	if km < 0 {
		return nil
	}
	d := utils.RoundTo(km, distancePrecision)
	return &d
}
