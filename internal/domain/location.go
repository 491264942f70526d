package domain

// Location is the result of resolving device coordinates to a country.
// CountryCode drives the holiday cache refresh; the remaining fields are
// informational and passed through to the client.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
}
