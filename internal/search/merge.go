package search

import (
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/utils"
)

// Merge concatenates the lists in priority order, then dedupes, backfills
// distances from center, sorts and caps the result at take.
func Merge(center utils.Point, option models.SortOption, take int, lists ...[]models.Place) []models.Place {
	var all []models.Place
	for _, list := range lists {
		all = append(all, list...)
	}

	merged := Dedupe(all)
	for i := range merged {
		mappers.BackfillDistance(&merged[i], &center)
	}
	Sort(merged, option)

	if take > 0 && len(merged) > take {
		merged = merged[:take]
	}
	return merged
}
