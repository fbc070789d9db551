package dto

type VenueResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

type VenuesResponse struct {
	Kind   string          `json:"kind"`
	Venues []VenueResponse `json:"venues"`
}
