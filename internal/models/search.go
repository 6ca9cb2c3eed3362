package models

import (
	"fmt"
	"strings"

	"petcare/internal/utils"
)

type SearchType string

const (
	SearchTypeVet     SearchType = "vet"
	SearchTypeShelter SearchType = "shelter"
	SearchTypeAll     SearchType = "all"
)

func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeVet, SearchTypeShelter, SearchTypeAll:
		return true
	}
	return false
}

type SortOption string

const (
	SortDistance SortOption = "distance"
	SortRating   SortOption = "rating"
)

func (s SortOption) Valid() bool {
	return s == SortDistance || s == SortRating
}

// SearchLocation holds exactly one of a ZIP code or explicit coordinates.
type SearchLocation struct {
	Zip    string
	Coords *utils.Point
}

func ZipLocation(zip string) SearchLocation {
	return SearchLocation{Zip: zip}
}

func CoordsLocation(lat, lng float64) SearchLocation {
	return SearchLocation{Coords: &utils.Point{Lat: lat, Lng: lng}}
}

func (l SearchLocation) HasCoords() bool {
	return l.Coords != nil
}

func (l SearchLocation) HasZip() bool {
	return l.Zip != ""
}

func (l SearchLocation) IsEmpty() bool {
	return !l.HasCoords() && !l.HasZip()
}

func (l SearchLocation) String() string {
	if l.HasCoords() {
		return l.Coords.String()
	}
	return "zip:" + l.Zip
}

type SearchQuery struct {
	Location  SearchLocation
	RadiusKm  float64
	Type      SearchType
	Take      int
	Page      int
	Sort      SortOption
	PageToken string
}

// CacheKey is derived from every parameter that changes the result.
func (q SearchQuery) CacheKey() string {
	parts := []string{
		string(q.Type),
		q.Location.String(),
		fmt.Sprintf("r=%.3f", q.RadiusKm),
		fmt.Sprintf("take=%d", q.Take),
		fmt.Sprintf("page=%d", q.Page),
		"sort=" + string(q.Sort),
	}
	if q.PageToken != "" {
		parts = append(parts, "token="+q.PageToken)
	}
	return utils.CacheSearchPrefix + strings.Join(parts, "|")
}

// ResolvedLocation is the output of location resolution.
type ResolvedLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Zip string  `json:"zip,omitempty"`
}

func (r ResolvedLocation) Point() utils.Point {
	return utils.Point{Lat: r.Lat, Lng: r.Lng}
}

type Pagination struct {
	Take          int    `json:"take"`
	Page          int    `json:"page"`
	Total         *int   `json:"total,omitempty"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type SearchResult struct {
	Items      []Place     `json:"items"`
	Pagination Pagination  `json:"pagination"`
	Center     utils.Point `json:"center"`
	RadiusKm   float64     `json:"radiusKm"`
	Zip        string      `json:"zip,omitempty"`
}

// NearbyResult lists stored places around a stored place's coordinates.
type NearbyResult struct {
	Items    []Place     `json:"items"`
	Center   utils.Point `json:"center"`
	RadiusKm float64     `json:"radiusKm"`
}
