// Package search merges, deduplicates and orders canonical places.
package search

import (
	"petcare/internal/models"
	"petcare/internal/utils"
)

// Dedupe drops every place that shares an external id, a normalized phone or a
// normalized website with an earlier place. Order is preserved and the first
// occurrence wins; fields of dropped duplicates are not merged.
func Dedupe(items []models.Place) []models.Place {
	var (
		byExternalID = make(map[string]struct{})
		byPhone      = make(map[string]struct{})
		byWebsite    = make(map[string]struct{})
	)

	out := make([]models.Place, 0, len(items))
	for _, item := range items {
		externalID, phone, website := dedupeKeys(item)

		if seen(byExternalID, externalID) || seen(byPhone, phone) || seen(byWebsite, website) {
			continue
		}

		register(byExternalID, externalID)
		register(byPhone, phone)
		register(byWebsite, website)
		out = append(out, item)
	}

	return out
}

func dedupeKeys(p models.Place) (externalID, phone, website string) {
	if p.ExternalID != nil {
		externalID = *p.ExternalID
	}
	if p.Phone != nil {
		phone, _ = utils.NormalizePhone(*p.Phone)
	}
	if p.Website != nil {
		website = utils.WebsiteKey(*p.Website)
	}
	return externalID, phone, website
}

func seen(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}

func register(set map[string]struct{}, key string) {
	if key != "" {
		set[key] = struct{}{}
	}
}
