package search

import (
	"math"
	"sort"

	"petcare/internal/models"
)

// Sort orders items in place. Unknown options sort by distance.
func Sort(items []models.Place, option models.SortOption) {
	less := byDistance
	if option == models.SortRating {
		less = byRating
	}
	sort.SliceStable(items, func(i, j int) bool {
		return less(&items[i], &items[j])
	})
}

// byDistance: distance asc, rating desc, review count desc.
func byDistance(a, b *models.Place) bool {
	if da, db := distanceKey(a), distanceKey(b); da != db {
		return da < db
	}
	if ra, rb := ratingKey(a), ratingKey(b); ra != rb {
		return ra > rb
	}
	return reviewCountKey(a) > reviewCountKey(b)
}

// byRating: rating desc, review count desc, distance asc.
func byRating(a, b *models.Place) bool {
	if ra, rb := ratingKey(a), ratingKey(b); ra != rb {
		return ra > rb
	}
	if ca, cb := reviewCountKey(a), reviewCountKey(b); ca != cb {
		return ca > cb
	}
	return distanceKey(a) < distanceKey(b)
}

func distanceKey(p *models.Place) float64 {
	if p.DistanceKm == nil || math.IsNaN(*p.DistanceKm) {
		return math.Inf(1)
	}
	return *p.DistanceKm
}

func ratingKey(p *models.Place) float64 {
	if p.Rating == nil || math.IsNaN(*p.Rating) {
		return -1
	}
	return *p.Rating
}

func reviewCountKey(p *models.Place) int {
	if p.ReviewCount == nil {
		return -1
	}
	return *p.ReviewCount
}
