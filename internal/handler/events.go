package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/repository"
)

// EventHandler registers events and serves their committed grids
type EventHandler struct {
	events repository.Events
}

func NewEventHandler(events repository.Events) *EventHandler {
	return &EventHandler{events: events}
}

// CreateEventRequest is the body of POST /events
type CreateEventRequest struct {
	ID               string          `json:"id" validate:"required,max=128,excludesall=:"`
	Name             string          `json:"name" validate:"max=256"`
	Category         string          `json:"category" validate:"required,category"`
	PlayerCount      int             `json:"player_count" validate:"gte=0,lte=100000"`
	EntryFee         decimal.Decimal `json:"entry_fee"`
	KitCostPerPlayer decimal.Decimal `json:"kit_cost_per_player"`
	Seed             string          `json:"seed" validate:"required,max=128"`
}

// EventResponse is an event plus its committed grid, if any
type EventResponse struct {
	Event domain.EventContext `json:"event"`
	Grid  *domain.PrizeGrid   `json:"grid,omitempty"`
}

// HandleCreate registers an event
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event facts"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/events [post]
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create event"); err != nil {
		return
	}

	evt := domain.EventContext{
		ID:               req.ID,
		Name:             req.Name,
		Category:         domain.Category(req.Category),
		PlayerCount:      req.PlayerCount,
		EntryFee:         req.EntryFee,
		KitCostPerPlayer: req.KitCostPerPlayer,
		Seed:             req.Seed,
		CreatedAt:        time.Now().UTC(),
	}
	if err := evt.Validate(); err != nil {
		respondServiceError(w, r, "Create event", err)
		return
	}
	if err := h.events.CreateEvent(r.Context(), evt); err != nil {
		respondServiceError(w, r, "Create event", err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgEventCreated, Data: evt})
}

// HandleGet returns an event and its committed grid
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathParam(r, w, "id")
	if !ok {
		return
	}

	evt, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get event", err)
		return
	}
	g, err := h.events.GetEventGrid(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get event grid", err)
		return
	}

	respondJSON(w, http.StatusOK, EventResponse{Event: *evt, Grid: g})
}
