package models

type Location struct {
	CountryCode string   `json:"country_code"`
	CountryName string   `json:"country_name"`
	Cities      []string `json:"cities"`
	Available   bool     `json:"available"`
}

type LocationsResponse struct {
	Locations []Location `json:"locations"`
}
