package petfinder

type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

type Hours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

type Photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

type Adoption struct {
	Policy string `json:"policy"`
	URL    string `json:"url"`
}

type Organization struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Address          Address  `json:"address"`
	Hours            Hours    `json:"hours"`
	URL              string   `json:"url"`
	Website          string   `json:"website"`
	MissionStatement string   `json:"mission_statement"`
	Adoption         Adoption `json:"adoption"`
	Photos           []Photo  `json:"photos"`
	// Distance is in miles and only present on location searches.
	Distance *float64 `json:"distance"`
}

type Pagination struct {
	CountPerPage int `json:"count_per_page"`
	TotalCount   int `json:"total_count"`
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
}

type OrganizationsResponse struct {
	Organizations []Organization `json:"organizations"`
	Pagination    Pagination     `json:"pagination"`
}

type organizationResponse struct {
	Organization Organization `json:"organization"`
}

// SearchParams is an organization search around a location.
type SearchParams struct {
	// Location is a ZIP code or "lat,lng".
	Location   string
	DistanceMi float64
	Limit      int
	Page       int
}
