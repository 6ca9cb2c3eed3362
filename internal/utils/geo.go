package utils

import (
	"fmt"
	"regexp"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func IsValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

var zipRegex = regexp.MustCompile(`^\d{5}$`)

// IsValidZip accepts a five digit US ZIP code.
func IsValidZip(zip string) bool {
	return zipRegex.MatchString(zip)
}
