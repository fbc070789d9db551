package handlers

import (
	"net/http"

	"github.com/application-project-group16/sportbuddies/backend/internal/config"
	reportsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/reports"
	venuesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/venues"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

// ConfigHandler serves the fixed catalogs the clients build their pickers
// from, so the app and the backend agree on the same lists.
type ConfigHandler struct {
	catalog config.CatalogConfig
}

func NewConfigHandler(catalog config.CatalogConfig) *ConfigHandler {
	return &ConfigHandler{catalog: catalog}
}

func (h *ConfigHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.CatalogResponse{
		Sports:        h.catalog.Sports,
		Cities:        h.catalog.Cities,
		VenueKinds:    venuesvc.Kinds(),
		ReportReasons: reportsvc.Reasons(),
	})
}
