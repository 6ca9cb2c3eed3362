package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON point as stored in MongoDB.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (l GeoPoint) Latitude() float64 {
	if len(l.Coordinates) >= 2 {
		return l.Coordinates[1]
	}
	return 0
}

func (l GeoPoint) Longitude() float64 {
	if len(l.Coordinates) >= 1 {
		return l.Coordinates[0]
	}
	return 0
}

// ZipCode is a cached ZIP centroid. Source records which geocoder produced it.
type ZipCode struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Zip        string             `json:"zip" bson:"zip"`
	Location   GeoPoint           `json:"location" bson:"location"`
	Source     string             `json:"source" bson:"source"`
	ResolvedAt time.Time          `json:"resolved_at" bson:"resolved_at"`
}

// StoredPlace is a row of the internal places table.
type StoredPlace struct {
	ID          string
	Name        string
	Type        PlaceType
	Address     string
	Zipcode     string
	Phone       *string
	Website     *string
	Lat         *float64
	Lng         *float64
	Rating      *float64
	ReviewCount *int
	CreatedAt   time.Time
}
