package dto

// FilterResponse selección vigente de la sesión.
type FilterResponse struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	CountryID *string `json:"country_id"`
}

// UpdateFilterRequest parche de la selección; ClearCountry vuelve a "todos".
type UpdateFilterRequest struct {
	Month        *int    `json:"month"`
	Year         *int    `json:"year"`
	CountryID    *string `json:"country_id"`
	ClearCountry bool    `json:"clear_country"`
}
