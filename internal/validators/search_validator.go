package validators

import (
	"strings"

	"petcare/internal/models"
)

// SearchRequest is the query string of GET /api/v1/search.
type SearchRequest struct {
	Zip       string   `form:"zip" validate:"required_without_all=Lat Lng,omitempty,zip_code"`
	Lat       *float64 `form:"lat" validate:"required_with=Lng,omitempty,gte=-90,lte=90"`
	Lng       *float64 `form:"lng" validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
	Type      string   `form:"type" validate:"omitempty,oneof=vet shelter all"`
	RadiusKm  float64  `form:"radiusKm" validate:"omitempty,gt=0"`
	Take      int      `form:"take" validate:"omitempty,min=1"`
	Page      int      `form:"page" validate:"omitempty,min=1,max=1000"`
	Sort      string   `form:"sort" validate:"omitempty,oneof=distance rating"`
	PageToken string   `form:"pageToken" validate:"omitempty,max=1024"`
}

// ValidateSearchRequest trims the request in place and validates it.
func ValidateSearchRequest(req *SearchRequest) ValidationErrors {
	req.Zip = strings.TrimSpace(req.Zip)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	req.Sort = strings.ToLower(strings.TrimSpace(req.Sort))
	return ValidateStruct(req)
}

// ToQuery converts a validated request. A ZIP wins over coordinates when
// both are sent.
func (r *SearchRequest) ToQuery() models.SearchQuery {
	location := models.ZipLocation(r.Zip)
	if r.Zip == "" && r.Lat != nil && r.Lng != nil {
		location = models.CoordsLocation(*r.Lat, *r.Lng)
	}

	return models.SearchQuery{
		Location:  location,
		RadiusKm:  r.RadiusKm,
		Type:      models.SearchType(r.Type),
		Take:      r.Take,
		Page:      r.Page,
		Sort:      models.SortOption(r.Sort),
		PageToken: r.PageToken,
	}
}
