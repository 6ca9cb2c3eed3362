package mappers

import (
	"petcare/internal/models"
	"petcare/internal/utils"
	"petcare/pkg/petfinder"
)

const unknownShelterName = "Unknown shelter"

// FromPetfinderOrganization maps an organization. Organizations have no
// coordinates, so distance comes only from the native miles value.
func FromPetfinderOrganization(org petfinder.Organization) models.Place {
	name := org.Name
	if name == "" {
		name = unknownShelterName
	}

	place := models.Place{
		ID:         models.ExternalPlaceID(models.SourcePetfinder, org.ID),
		ExternalID: models.StringPtr(org.ID),
		Name:       name,
		Address: utils.JoinAddress(
			org.Address.Address1,
			org.Address.Address2,
			org.Address.City,
			org.Address.State,
			org.Address.Postcode,
		),
		Zipcode: org.Address.Postcode,
		Type:    models.PlaceTypeShelter,
		Source:  models.SourcePetfinder,
		Hours:   petfinderHours(org.Hours),
	}

	website := org.Website
	if website == "" {
		website = org.URL
	}
	setContact(&place, org.Phone, website)

	if org.Distance != nil {
		place.DistanceKm = nativeDistanceKm(utils.MilesToKm(*org.Distance))
	}

	for _, photo := range org.Photos {
		if photo.Medium != "" {
			place.Photos = append(place.Photos, photo.Medium)
		}
	}

	return place
}

func petfinderHours(h petfinder.Hours) []string {
	days := []struct {
		name  string
		hours string
	}{
		{"Monday", h.Monday},
		{"Tuesday", h.Tuesday},
		{"Wednesday", h.Wednesday},
		{"Thursday", h.Thursday},
		{"Friday", h.Friday},
		{"Saturday", h.Saturday},
		{"Sunday", h.Sunday},
	}

	var out []string
	for _, d := range days {
		if d.hours != "" {
			out = append(out, d.name+": "+d.hours)
		}
	}
	return out
}
