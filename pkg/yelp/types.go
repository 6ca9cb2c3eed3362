package yelp

type SearchParams struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Term       string
	Categories string
	Limit      int
	Page       int
}

type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Location struct {
	Address1       string   `json:"address1"`
	Address2       string   `json:"address2"`
	Address3       string   `json:"address3"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	State          string   `json:"state"`
	Country        string   `json:"country"`
	DisplayAddress []string `json:"display_address"`
}

type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type Business struct {
	ID           string      `json:"id"`
	Alias        string      `json:"alias"`
	Name         string      `json:"name"`
	ImageURL     string      `json:"image_url"`
	URL          string      `json:"url"`
	ReviewCount  int         `json:"review_count"`
	Rating       float64     `json:"rating"`
	Price        string      `json:"price"`
	Phone        string      `json:"phone"`
	DisplayPhone string      `json:"display_phone"`
	Categories   []Category  `json:"categories"`
	Coordinates  Coordinates `json:"coordinates"`
	Location     Location    `json:"location"`
	// Distance is in meters from the search center.
	Distance *float64 `json:"distance"`
	IsClosed bool     `json:"is_closed"`
}

type SearchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}
