package handler

import (
	"net/http"
	"strconv"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/repository"
)

// CatalogHandler exposes the prize catalog read-only
type CatalogHandler struct {
	catalog repository.Catalog
}

func NewCatalogHandler(catalog repository.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// HandleList lists catalog entries. With in_stock=true only eligible entries
// of the optional tier are returned.
// @Summary List catalog
// @Tags catalog
// @Produce json
// @Param tier query string false "Tier filter"
// @Param in_stock query bool false "Only entries with stock"
// @Success 200 {array} domain.CatalogEntry
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tier := r.URL.Query().Get("tier")
	inStock, _ := strconv.ParseBool(r.URL.Query().Get("in_stock"))

	var (
		entries []domain.CatalogEntry
		err     error
	)
	if inStock {
		entries, err = h.catalog.GetEligibleEntries(r.Context(), tier, nil)
	} else {
		entries, err = h.catalog.ListEntries(r.Context())
		entries = filterTier(entries, tier)
	}
	if err != nil {
		respondServiceError(w, r, "List catalog", err)
		return
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func filterTier(entries []domain.CatalogEntry, tier string) []domain.CatalogEntry {
	if tier == "" {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Tier == tier {
			out = append(out, e)
		}
	}
	return out
}
