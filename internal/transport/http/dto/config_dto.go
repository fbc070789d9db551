package dto

type CatalogResponse struct {
	Sports        []string `json:"sports"`
	Cities        []string `json:"cities"`
	VenueKinds    []string `json:"venue_kinds"`
	ReportReasons []string `json:"report_reasons"`
}
