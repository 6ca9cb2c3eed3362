package models

type PlaceType string

const (
	PlaceTypeVet     PlaceType = "vet"
	PlaceTypeShelter PlaceType = "shelter"
)

func (t PlaceType) Valid() bool {
	return t == PlaceTypeVet || t == PlaceTypeShelter
}

type Source string

const (
	SourceDB        Source = "db"
	SourceGoogle    Source = "google"
	SourceYelp      Source = "yelp"
	SourcePetfinder Source = "petfinder"
)

// Place is the canonical search result. It is built fresh for every request
// and never persisted.
type Place struct {
	ID          string    `json:"id"`
	ExternalID  *string   `json:"externalId,omitempty"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Zipcode     string    `json:"zipcode,omitempty"`
	Type        PlaceType `json:"type"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	DistanceKm  *float64  `json:"distanceKm,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ReviewCount *int      `json:"reviewCount,omitempty"`
	PriceLevel  *int      `json:"priceLevel,omitempty"`
	Services    []string  `json:"services,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	Hours       []string  `json:"hours,omitempty"`
	Source      Source    `json:"source"`
}

func (p *Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// SetCoordinates keeps lat and lng present or absent together.
func (p *Place) SetCoordinates(lat, lng float64) {
	p.Lat = &lat
	p.Lng = &lng
}

// ExternalPlaceID prefixes a provider id so ids never collide across sources.
func ExternalPlaceID(source Source, externalID string) string {
	return string(source) + ":" + externalID
}

func StringPtr(s string) *string {
	return &s
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func IntPtr(i int) *int {
	return &i
}
