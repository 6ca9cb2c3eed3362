package validators

import (
	"testing"

	"petcare/internal/models"
)

func float64Ptr(f float64) *float64 { return &f }

func TestValidateSearchRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       SearchRequest
		wantField string
	}{
		{"zip", SearchRequest{Zip: " 98101 "}, ""},
		{"coords", SearchRequest{Lat: float64Ptr(47.6), Lng: float64Ptr(-122.3), Type: "ALL"}, ""},
		{"nothing", SearchRequest{}, "zip"},
		{"short zip", SearchRequest{Zip: "9810"}, "zip"},
		{"lat only", SearchRequest{Lat: float64Ptr(47.6)}, "lng"},
		{"lat out of range", SearchRequest{Lat: float64Ptr(91), Lng: float64Ptr(0)}, "lat"},
		{"lng out of range", SearchRequest{Lat: float64Ptr(0), Lng: float64Ptr(-181)}, "lng"},
		{"bad type", SearchRequest{Zip: "98101", Type: "groomer"}, "type"},
		{"bad sort", SearchRequest{Zip: "98101", Sort: "name"}, "sort"},
		{"negative radius", SearchRequest{Zip: "98101", RadiusKm: -1}, "radiusKm"},
		{"negative take", SearchRequest{Zip: "98101", Take: -5}, "take"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			errs := ValidateSearchRequest(&req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if _, ok := errs.Fields()[tt.wantField]; !ok {
				t.Errorf("errors = %v, want one on %s", errs, tt.wantField)
			}
		})
	}
}

func TestSearchRequestToQuery(t *testing.T) {
	req := SearchRequest{Lat: float64Ptr(47.6), Lng: float64Ptr(-122.3), Type: "shelter", Take: 5, Page: 2, Sort: "rating", PageToken: "tok"}
	query := req.ToQuery()

	if !query.Location.HasCoords() || query.Location.Coords.Lat != 47.6 || query.Type != models.SearchTypeShelter {
		t.Errorf("query = %+v", query)
	}
	if query.Take != 5 || query.Page != 2 || query.Sort != models.SortRating || query.PageToken != "tok" {
		t.Errorf("query = %+v", query)
	}

	req = SearchRequest{Zip: "98101", Lat: float64Ptr(1), Lng: float64Ptr(2)}
	if query := req.ToQuery(); !query.Location.HasZip() || query.Location.HasCoords() {
		t.Errorf("zip should win: %+v", query.Location)
	}
}

func TestValidateIDs(t *testing.T) {
	if errs := ValidateShelterID("WA06"); len(errs) != 0 {
		t.Errorf("WA06: %v", errs)
	}
	if errs := ValidateShelterID("WA-06"); len(errs) != 1 || errs[0].Message != "id must be an alphanumeric Petfinder id" {
		t.Errorf("WA-06: %v", errs)
	}
	if errs := ValidatePlaceID(""); len(errs) != 1 || errs[0].Message != "id is required" {
		t.Errorf("empty: %v", errs)
	}
	if errs := ValidatePlaceID("3f2a9c1e-8b7d-4e6f-9a1b-2c3d4e5f6a7b"); len(errs) != 0 {
		t.Errorf("uuid: %v", errs)
	}
	if errs := ValidatePlaceID("../etc"); len(errs) != 1 {
		t.Errorf("path traversal accepted")
	}
}
