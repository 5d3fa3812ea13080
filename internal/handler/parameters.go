package handler

import (
	"net/http"

	"github.com/osse101/prizegrid/internal/params"
)

// ParametersHandler serves the economic parameter snapshot
type ParametersHandler struct {
	service params.Service
}

func NewParametersHandler(service params.Service) *ParametersHandler {
	return &ParametersHandler{service: service}
}

// HandleGet returns the current parameters
// @Summary Get economic parameters
// @Tags parameters
// @Produce json
// @Success 200 {object} domain.EconomicParameters
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/parameters [get]
func (h *ParametersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get parameters", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleUpdate applies a partial update. Either every field applies or none.
// @Summary Update economic parameters
// @Tags parameters
// @Accept json
// @Produce json
// @Param request body params.Update true "Fields to change"
// @Success 200 {object} domain.EconomicParameters
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/parameters [patch]
func (h *ParametersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req params.Update
	if err := decodeRequest(r, w, &req, "Update parameters"); err != nil {
		return
	}

	p, err := h.service.ValidateAndSet(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "Update parameters", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
