package utils

import (
	"math"
)

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h slightly outside [0,1]
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(h))
}

func CalculateDistance(from, to Point) float64 {
	return HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
}

func IsWithinRadius(center, point Point, radiusKM float64) bool {
	return CalculateDistance(center, point) <= radiusKM
}

// BoundingBox is a lat/lng prefilter around a center. It is a superset of the
// circle and must be followed by an exact distance check.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

func NewBoundingBox(center Point, radiusKm float64) BoundingBox {
	latDelta := toDegrees(radiusKm / EarthRadiusKM)

	box := BoundingBox{
		MinLat: math.Max(-90, center.Lat-latDelta),
		MaxLat: math.Min(90, center.Lat+latDelta),
		MinLng: -180,
		MaxLng: 180,
	}

	cosLat := math.Cos(toRadians(center.Lat))
	if cosLat <= 1e-12 || box.MinLat == -90 || box.MaxLat == 90 {
		return box
	}

	// widest longitude reached by the circle; never narrower than the
	// linear approximation
	ratio := math.Sin(radiusKm/EarthRadiusKM) / cosLat
	if ratio >= 1 {
		return box
	}
	lngDelta := math.Max(toDegrees(math.Asin(ratio)), latDelta/cosLat)
	if lngDelta >= 180 {
		return box
	}

	minLng := center.Lng - lngDelta
	maxLng := center.Lng + lngDelta
	// a box crossing the antimeridian degrades to full longitude
	if minLng < -180 || maxLng > 180 {
		return box
	}

	box.MinLng = minLng
	box.MaxLng = maxLng
	return box
}

func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

func KmToMiles(km float64) float64 {
	return km * MilesPerKm
}

func MilesToKm(miles float64) float64 {
	return miles / MilesPerKm
}

// KmToMeters rounds to whole meters for providers that take integer radii.
func KmToMeters(km float64) int {
	return int(math.Round(km * 1000))
}

func MetersToKm(meters float64) float64 {
	return meters / 1000
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
